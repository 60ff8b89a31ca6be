package board

import "fmt"

// File is a board column, FileA through FileH.
type File uint8

// Rank is a board row, Rank1 through Rank8.
type Rank uint8

const (
	FileA File = iota
	FileB
	FileC
	FileD
	FileE
	FileF
	FileG
	FileH
)

const (
	Rank1 Rank = iota
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
)

func (f File) String() string { return string(rune('a' + f)) }

func (r Rank) String() string { return string(rune('1' + r)) }

// Coordinate identifies one of the 64 squares. The encoding is file + 8*rank,
// so A1 is 0 and H8 is 63.
type Coordinate uint8

const NumSquares = 64

// NewCoordinate combines a file and a rank.
func NewCoordinate(f File, r Rank) Coordinate {
	return Coordinate(uint8(r)*8 + uint8(f))
}

func (c Coordinate) File() File { return File(c % 8) }
func (c Coordinate) Rank() Rank { return Rank(c / 8) }

func (c Coordinate) Valid() bool { return c < NumSquares }

func (c Coordinate) String() string {
	if !c.Valid() {
		return "-"
	}
	return c.File().String() + c.Rank().String()
}

// ParseCoordinate parses algebraic square labels like "e4".
func ParseCoordinate(s string) (Coordinate, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return 0, fmt.Errorf("invalid coordinate %q", s)
	}
	return NewCoordinate(File(s[0]-'a'), Rank(s[1]-'1')), nil
}

// MustCoordinate is ParseCoordinate for literals.
func MustCoordinate(s string) Coordinate {
	c, err := ParseCoordinate(s)
	if err != nil {
		panic(err)
	}
	return c
}
