package domain

import "errors"

var (
	// ErrCatalogNotFound indicates the question catalog could not be loaded.
	ErrCatalogNotFound = errors.New("question catalog not found")
	// ErrQuizCompleted is returned when an answer arrives for a session that
	// already finished the quiz.
	ErrQuizCompleted = errors.New("quiz already completed")
	// ErrNoRatings indicates no rating statistics have been recorded yet.
	ErrNoRatings = errors.New("no ratings data available")
	// ErrInvalidRating indicates a rating outside the 1..5 range.
	ErrInvalidRating = errors.New("rating must be an integer from 1-5")
)
