package match

import "strconv"

// SeatCount is the number of seats around a table.
const SeatCount = 10

// Seat is a position at the table, numbered 1 through SeatCount.
type Seat int

const (
	FirstSeat Seat = 1
	LastSeat  Seat = SeatCount
)

// Valid reports whether s names one of the table's seats.
func (s Seat) Valid() bool { return s >= FirstSeat && s <= LastSeat }

// Next returns the seat to the left of s; LastSeat wraps to FirstSeat.
func (s Seat) Next() Seat {
	if s >= LastSeat {
		return FirstSeat
	}
	return s + 1
}

// Previous returns the seat to the right of s; FirstSeat wraps to LastSeat.
func (s Seat) Previous() Seat {
	if s <= FirstSeat {
		return LastSeat
	}
	return s - 1
}

func (s Seat) String() string { return strconv.Itoa(int(s)) }

func (s Seat) index() int { return int(s) - 1 }

// Seats returns every seat in table order.
func Seats() []Seat {
	out := make([]Seat, 0, SeatCount)
	for s := FirstSeat; s <= LastSeat; s++ {
		out = append(out, s)
	}
	return out
}
