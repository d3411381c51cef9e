package api

import (
	"log"

	"speakermap/internal/contacts"
	"speakermap/internal/match"
	"speakermap/internal/repository"
)

// matchRepo is the shared match-run repository instance (sqlite or the
// in-memory store).
var matchRepo repository.MatchRepository

// matcher is the shared matcher instance.
var matcher *match.Matcher

// InitMatchRepository initializes the match-run repository
func InitMatchRepository(repo repository.MatchRepository) {
	matchRepo = repo
	if repo != nil {
		log.Printf("Match repository initialized successfully")
	} else {
		log.Printf("Warning: Match repository is nil")
	}
}

// InitMatcher initializes the matcher with its contact directory (which may
// be nil) and options.
func InitMatcher(directory contacts.Directory, opts match.Options) {
	matcher = match.New(directory, opts)
	if directory != nil {
		log.Printf("Matcher initialized with contact directory")
	} else {
		log.Printf("Matcher initialized without contact directory")
	}
}
