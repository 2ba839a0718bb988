package generation

import "errors"

// ErrIndexOutOfRange is returned by LocateCard when the requested card index
// does not correspond to a card produced by GenerateCards.
var ErrIndexOutOfRange = errors.New("card index out of range")
