package emitter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iulianpascalau/dogstatsd-checker/services/sampleapp/metrics"
)

const (
	// MaxNameSize is the exclusive upper bound of a metric name, in bytes
	MaxNameSize = 8192

	defaultPrefix   = "uwsgi"
	workersPrefix   = "worker."
	nameSeparator   = "."
	tagSeparator    = ","
	tagsMarker      = "|#"
	counterSuffix   = "|c"
	gaugeSuffix     = "|g"
	tagKeySeparator = ":"
)

// ArgsFormatter defines the arguments needed to create a new DogStatsD formatter
type ArgsFormatter struct {
	Prefix    string
	ExtraTags string
	AllGauges bool
	NoWorkers bool
	Whitelist []string
}

type formatter struct {
	prefix    string
	extraTags string
	allGauges bool
	noWorkers bool
	whitelist map[string]struct{}
}

// NewFormatter creates a new DogStatsD line formatter. An empty prefix defaults to uwsgi.
func NewFormatter(args ArgsFormatter) *formatter {
	f := &formatter{
		prefix:    args.Prefix,
		extraTags: args.ExtraTags,
		allGauges: args.AllGauges,
		noWorkers: args.NoWorkers,
	}
	if len(f.prefix) == 0 {
		f.prefix = defaultPrefix
	}
	if len(args.Whitelist) > 0 {
		f.whitelist = make(map[string]struct{}, len(args.Whitelist))
		for _, name := range args.Whitelist {
			f.whitelist[name] = struct{}{}
		}
	}

	return f
}

// Format renders the metric as <prefix>.<name>:<value>|<type>[|#<tags>]. A numeric name token following a key token
// is moved into the tags, so worker.1.requests becomes worker.requests tagged with worker:1.
func (f *formatter) Format(m metrics.Metric) (string, error) {
	if f.noWorkers && strings.HasPrefix(m.Name, workersPrefix) {
		return "", fmt.Errorf("%w: %s is a worker metric", ErrMetricFiltered, m.Name)
	}
	if len(m.Name) >= MaxNameSize {
		return "", fmt.Errorf("%w: %d bytes", errNameTooLong, len(m.Name))
	}

	name, tags, err := f.extractTags(m.Name)
	if err != nil {
		return "", err
	}

	if f.whitelist != nil {
		_, found := f.whitelist[name]
		if !found {
			return "", fmt.Errorf("%w: %s is not whitelisted", ErrMetricFiltered, name)
		}
	}

	builder := strings.Builder{}
	builder.WriteString(f.prefix)
	builder.WriteString(nameSeparator)
	builder.WriteString(name)
	builder.WriteString(tagKeySeparator)
	builder.WriteString(strconv.FormatInt(m.Value, 10))
	builder.WriteString(f.typeSuffix(m.Type))
	if len(tags) > 0 {
		builder.WriteString(tagsMarker)
		builder.WriteString(strings.Join(tags, tagSeparator))
	}

	return builder.String(), nil
}

func (f *formatter) typeSuffix(metricType metrics.Type) string {
	if f.allGauges || metricType == metrics.Gauge {
		return gaugeSuffix
	}

	return counterSuffix
}

// extractTags splits the raw name on dots, skipping empty tokens. The extra tags, if any, come first.
func (f *formatter) extractTags(rawName string) (string, []string, error) {
	tokens := make([]string, 0)
	for _, token := range strings.Split(rawName, nameSeparator) {
		if len(token) > 0 {
			tokens = append(tokens, token)
		}
	}
	if len(tokens) == 0 {
		return "", nil, fmt.Errorf("%w: %q", errEmptyMetricName, rawName)
	}

	tags := make([]string, 0)
	if len(f.extraTags) > 0 {
		tags = append(tags, f.extraTags)
	}

	nameTokens := make([]string, 0, len(tokens))
	key := ""
	for _, token := range tokens {
		isNumber, err := hasIntegerPrefix(token)
		if err != nil {
			return "", nil, fmt.Errorf("%w in %q", err, rawName)
		}

		if isNumber && len(key) > 0 {
			tags = append(tags, key+tagKeySeparator+token)
			continue
		}

		key = token
		nameTokens = append(nameTokens, token)
	}

	return strings.Join(nameTokens, nameSeparator), tags, nil
}

// hasIntegerPrefix returns true if the token starts with an optionally signed base 10 integer
func hasIntegerPrefix(token string) (bool, error) {
	end := 0
	if end < len(token) && (token[end] == '+' || token[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(token) && token[end] >= '0' && token[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return false, nil
	}

	_, err := strconv.ParseInt(token[:end], 10, 64)
	if err != nil {
		return false, fmt.Errorf("%w: %s", errNumberOutOfRange, token)
	}

	return true, nil
}

// IsInterfaceNil returns true if the value under the interface is nil
func (f *formatter) IsInterfaceNil() bool {
	return f == nil
}
