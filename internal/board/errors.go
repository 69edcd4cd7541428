package board

import "errors"

// Sentinel errors for board construction and parsing.
var (
	// ErrNilBoard indicates no board was supplied.
	ErrNilBoard = errors.New("board: board is nil")
	// ErrNotSquare indicates the board is not exactly 5×5.
	ErrNotSquare = errors.New("board: board must be 5x5")
	// ErrBadCoords indicates a tile whose Row/Col disagree with its cell.
	ErrBadCoords = errors.New("board: tile coordinates do not match cell")
	// ErrMissingLetter indicates a tile without a letter.
	ErrMissingLetter = errors.New("board: tile has no letter")
	// ErrBadLetter indicates a tile letter outside A–Z.
	ErrBadLetter = errors.New("board: tile letter must be A-Z")
	// ErrBadToken indicates an unparseable cell in board text.
	ErrBadToken = errors.New("board: invalid cell token")
)
