package bracket

import "errors"

var (
	// ErrInsufficientParticipants is returned when a bracket is built with
	// fewer than 2 participants.
	ErrInsufficientParticipants = errors.New("at least 2 participants are required to build a bracket")

	// ErrBracketExists is returned when bracket generation is attempted twice
	// for the same tournament.
	ErrBracketExists = errors.New("bracket already generated for this tournament")

	ErrBracketNotFound = errors.New("bracket not found")
	ErrMatchNotFound   = errors.New("match not found")

	// ErrNotAParticipant is returned when a submitted id does not belong to
	// either slot of the match.
	ErrNotAParticipant = errors.New("participant is not part of this match")

	// ErrMatchNotSchedulable is returned when a result is submitted against a
	// match that is not accepting claims (pending, bye, disputed or already
	// completed).
	ErrMatchNotSchedulable = errors.New("match is not accepting result submissions")
)
