package runtime

import (
	"strconv"

	"blesync/internal/domain"
)

// Small string-formatting helpers kept separate from actor.go so the
// telemetry call sites stay free of strconv noise.

func formatOffset(o domain.EventOffset) string {
	return strconv.FormatUint(uint64(o), 10)
}

func formatPageSize(p domain.PageSize) string {
	return strconv.FormatUint(uint64(p), 10)
}

func formatTimestamp(t domain.TimestampMs) string {
	return strconv.FormatInt(int64(t), 10)
}
