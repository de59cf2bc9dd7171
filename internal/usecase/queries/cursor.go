package queries

import (
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	"rental-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 200
	cursorPrefix     = "p1:"
)

var ErrInvalidCursor = errs.New("invalid page cursor")

// EncodeAfterCursor keeps microsecond precision, matching Postgres timestamptz.
func EncodeAfterCursor(t time.Time, id uuid.UUID) string {
	raw := cursorPrefix + strconv.FormatInt(t.UnixMicro(), 10) + "_" + id.String()
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func DecodeAfterCursor(cursor string) (time.Time, uuid.UUID, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, uuid.Nil, errs.Mark(errs.Wrap(err, "decode cursor"), ErrInvalidCursor)
	}

	payload, ok := strings.CutPrefix(string(decoded), cursorPrefix)
	if !ok {
		return time.Time{}, uuid.Nil, ErrInvalidCursor
	}

	micros, rawID, ok := strings.Cut(payload, "_")
	if !ok {
		return time.Time{}, uuid.Nil, ErrInvalidCursor
	}

	ts, err := strconv.ParseInt(micros, 10, 64)
	if err != nil {
		return time.Time{}, uuid.Nil, errs.Mark(errs.Wrap(err, "cursor timestamp"), ErrInvalidCursor)
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return time.Time{}, uuid.Nil, errs.Mark(errs.Wrap(err, "cursor id"), ErrInvalidCursor)
	}

	return time.UnixMicro(ts).UTC(), id, nil
}

func ValidateLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return min(limit, MaxListLimit)
}
