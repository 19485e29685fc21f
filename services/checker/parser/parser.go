package parser

import (
	"fmt"
	"strings"

	"github.com/iulianpascalau/dogstatsd-checker/services/checker/common"
)

const (
	segmentSeparator   = "|"
	nameValueSeparator = ":"
	tagsSeparator      = ","
	tagsSentinel       = "#"
)

// Parse decodes one line with the format <name>:<value>|<type>[|#<tag1>,<tag2>,...]
// Segments following the tags segment (sample rates and the like) are ignored.
func Parse(line string) (common.MetricRecord, error) {
	segments := strings.Split(line, segmentSeparator)
	if len(segments) < 2 {
		return common.MetricRecord{}, malformed(line, "missing type segment")
	}

	nameValue := strings.Split(segments[0], nameValueSeparator)
	if len(nameValue) != 2 {
		return common.MetricRecord{}, malformed(line, "name:value segment")
	}
	if len(nameValue[0]) == 0 {
		return common.MetricRecord{}, malformed(line, "empty name")
	}

	record := common.MetricRecord{
		Name:       nameValue[0],
		Value:      nameValue[1],
		MetricType: segments[1],
	}

	if len(segments) > 2 {
		tags := strings.Split(segments[2], tagsSeparator)
		if !strings.HasPrefix(tags[0], tagsSentinel) {
			return common.MetricRecord{}, malformed(line, "tags segment")
		}

		tags[0] = strings.TrimPrefix(tags[0], tagsSentinel)
		record.Tags = tags
	}

	return record, nil
}

// SplitLines returns the non-blank lines of a datagram payload
func SplitLines(payload string) []string {
	lines := strings.Split(payload, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}

		result = append(result, line)
	}

	return result
}

func malformed(line string, reason string) error {
	return fmt.Errorf("%w: %s in %q", ErrMalformedPacket, reason, line)
}
