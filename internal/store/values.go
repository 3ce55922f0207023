package store

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Empty normalized values load as NULL, never as empty strings or zero
// dates.

func pgText(v string) pgtype.Text {
	return pgtype.Text{String: v, Valid: v != ""}
}

func pgDate(iso string) pgtype.Date {
	if iso == "" {
		return pgtype.Date{}
	}
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: t, Valid: true}
}

func pgID(id *int64) pgtype.Int8 {
	if id == nil {
		return pgtype.Int8{}
	}
	return pgtype.Int8{Int64: *id, Valid: true}
}

func pgClasses(classes []int) []int32 {
	out := make([]int32, len(classes))
	for i, c := range classes {
		out[i] = int32(c)
	}
	return out
}
