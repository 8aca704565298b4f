package modelity

import (
	"encoding/base64"
	"encoding/json"
	"math"
	"net/netip"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/modelity/modelity-go/internal/textutil"
)

func newSimpleDescriptor(key string) (Descriptor, error) {
	switch key {
	case "bool":
		return &boolDescriptor{}, nil
	case "int":
		return intDescriptor{}, nil
	case "float":
		return floatDescriptor{}, nil
	case "str":
		return stringDescriptor{}, nil
	case "bytes":
		return bytesDescriptor{}, nil
	case "any":
		return anyDescriptor{}, nil
	case "uuid":
		return uuidDescriptor{}, nil
	case "ipaddr":
		return ipAddrDescriptor{}, nil
	}
	return nil, &UnsupportedTypeError{Key: key}
}

// ---- bool ----

type boolDescriptor struct {
	trueLiterals  []any
	falseLiterals []any
}

func (d *boolDescriptor) Parse(sink *ErrorSink, loc Loc, v any) any {
	if b, ok := v.(bool); ok {
		return b
	}
	for _, lit := range d.trueLiterals {
		if lit == v {
			return true
		}
	}
	for _, lit := range d.falseLiterals {
		if lit == v {
			return false
		}
	}
	sink.Append(errParse(loc, v, "bool"))
	return Unset
}

func (d *boolDescriptor) Dump(loc Loc, v any, filter DumpFilter) any { return v }

func (d *boolDescriptor) Validate(rc *RunContext, loc Loc, v any) {}

// ---- int ----

type intDescriptor struct{}

func (intDescriptor) Parse(sink *ErrorSink, loc Loc, v any) any {
	if n, ok := coerceInt64(v); ok {
		return n
	}
	sink.Append(errParse(loc, v, "int"))
	return Unset
}

func (intDescriptor) Dump(loc Loc, v any, filter DumpFilter) any { return v }

func (intDescriptor) Validate(rc *RunContext, loc Loc, v any) {}

// coerceInt64 accepts every integral raw form the wire can produce: Go ints
// and uints, integral floats, json.Number and numeric strings. Fractional
// values do not coerce.
func coerceInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int8:
		return int64(t), true
	case int16:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case uint:
		return int64(t), true
	case uint8:
		return int64(t), true
	case uint16:
		return int64(t), true
	case uint32:
		return int64(t), true
	case uint64:
		if t > math.MaxInt64 {
			return 0, false
		}
		return int64(t), true
	case float32:
		return intFromFloat(float64(t))
	case float64:
		return intFromFloat(t)
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, true
		}
		if f, err := t.Float64(); err == nil {
			return intFromFloat(f)
		}
		return 0, false
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n, true
		}
		return 0, false
	}
	return 0, false
}

func intFromFloat(f float64) (int64, bool) {
	if math.Trunc(f) != f || f < math.MinInt64 || f > math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// ---- float ----

type floatDescriptor struct{}

func (floatDescriptor) Parse(sink *ErrorSink, loc Loc, v any) any {
	if f, ok := coerceFloat64(v); ok {
		return f
	}
	sink.Append(errParse(loc, v, "float"))
	return Unset
}

func (floatDescriptor) Dump(loc Loc, v any, filter DumpFilter) any { return v }

func (floatDescriptor) Validate(rc *RunContext, loc Loc, v any) {}

func coerceFloat64(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f, true
		}
		return 0, false
	case string:
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return f, true
		}
		return 0, false
	}
	return 0, false
}

// ---- string ----

type stringDescriptor struct{}

func (stringDescriptor) Parse(sink *ErrorSink, loc Loc, v any) any {
	if s, ok := v.(string); ok {
		return s
	}
	sink.Append(errInvalidType(loc, v, "str"))
	return Unset
}

func (stringDescriptor) Dump(loc Loc, v any, filter DumpFilter) any { return v }

func (stringDescriptor) Validate(rc *RunContext, loc Loc, v any) {}

// ---- bytes ----

type bytesDescriptor struct{}

func (bytesDescriptor) Parse(sink *ErrorSink, loc Loc, v any) any {
	switch t := v.(type) {
	case []byte:
		return t
	case string:
		return []byte(t)
	}
	sink.Append(errInvalidType(loc, v, "bytes", "str"))
	return Unset
}

// Dump emits base64 so byte values survive textual encodings.
func (bytesDescriptor) Dump(loc Loc, v any, filter DumpFilter) any {
	b, _ := v.([]byte)
	return base64.StdEncoding.EncodeToString(b)
}

func (bytesDescriptor) Validate(rc *RunContext, loc Loc, v any) {}

// ---- any ----

type anyDescriptor struct{}

func (anyDescriptor) Parse(sink *ErrorSink, loc Loc, v any) any { return v }

func (anyDescriptor) Dump(loc Loc, v any, filter DumpFilter) any { return dumpAny(loc, v, filter) }

func (anyDescriptor) Validate(rc *RunContext, loc Loc, v any) {}

// dumpAny walks untyped values, recursing into the container proxies and
// plain collections so untyped fields still dump to a plain tree.
func dumpAny(loc Loc, v any, filter DumpFilter) any {
	switch t := v.(type) {
	case *Model:
		return dumpModel(t, loc, filter)
	case *List:
		return t.dump(loc, filter)
	case *Set:
		return t.dump(loc, filter)
	case *Map:
		return t.dump(loc, filter)
	case []any:
		out := make([]any, 0, len(t))
		for i, el := range t {
			el = dumpAny(loc.Push(i), el, filter)
			if fv, ok := filter(loc.Push(i), el); ok {
				out = append(out, fv)
			}
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, el := range t {
			el = dumpAny(loc.Push(k), el, filter)
			if fv, ok := filter(loc.Push(k), el); ok {
				out[k] = fv
			}
		}
		return out
	}
	return v
}

// ---- uuid ----

type uuidDescriptor struct{}

func (uuidDescriptor) Parse(sink *ErrorSink, loc Loc, v any) any {
	switch t := v.(type) {
	case uuid.UUID:
		return t
	case string:
		id, err := uuid.Parse(t)
		if err != nil {
			sink.Append(errParse(loc, v, "uuid"))
			return Unset
		}
		return id
	case []byte:
		id, err := uuid.FromBytes(t)
		if err != nil {
			sink.Append(errParse(loc, v, "uuid"))
			return Unset
		}
		return id
	}
	sink.Append(errInvalidType(loc, v, "uuid", "str"))
	return Unset
}

func (uuidDescriptor) Dump(loc Loc, v any, filter DumpFilter) any {
	id, _ := v.(uuid.UUID)
	return id.String()
}

func (uuidDescriptor) Validate(rc *RunContext, loc Loc, v any) {}

// ---- IP address ----

type ipAddrDescriptor struct{}

func (ipAddrDescriptor) Parse(sink *ErrorSink, loc Loc, v any) any {
	switch t := v.(type) {
	case netip.Addr:
		return t
	case string:
		addr, err := netip.ParseAddr(t)
		if err != nil {
			sink.Append(errParse(loc, v, "ipaddr"))
			return Unset
		}
		return addr
	}
	sink.Append(errInvalidType(loc, v, "ipaddr", "str"))
	return Unset
}

func (ipAddrDescriptor) Dump(loc Loc, v any, filter DumpFilter) any {
	addr, _ := v.(netip.Addr)
	return addr.String()
}

func (ipAddrDescriptor) Validate(rc *RunContext, loc Loc, v any) {}

// ---- time ----

var defaultTimeFormats = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05Z07:00", "2006-01-02 15:04:05", "2006-01-02"}

type timeDescriptor struct{ formats []string }

func newTimeDescriptor(formats []string) Descriptor {
	if len(formats) == 0 {
		formats = defaultTimeFormats
	}
	return &timeDescriptor{formats: formats}
}

func (d *timeDescriptor) Parse(sink *ErrorSink, loc Loc, v any) any {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range d.formats {
			if ts, err := time.Parse(layout, t); err == nil {
				return ts
			}
		}
		sink.Append(errParse(loc, v, "time"))
		return Unset
	}
	sink.Append(errInvalidType(loc, v, "time", "str"))
	return Unset
}

func (d *timeDescriptor) Dump(loc Loc, v any, filter DumpFilter) any {
	ts, _ := v.(time.Time)
	return ts.Format(time.RFC3339Nano)
}

func (d *timeDescriptor) Validate(rc *RunContext, loc Loc, v any) {}

// ---- enum / literal sets ----

type enumDescriptor struct{ values []any }

func (d *enumDescriptor) Parse(sink *ErrorSink, loc Loc, v any) any {
	for _, allowed := range d.values {
		if valuesEqual(allowed, v) {
			return allowed
		}
	}
	sink.Append(errInvalidEnumValue(loc, v, d.values))
	return Unset
}

func (d *enumDescriptor) Dump(loc Loc, v any, filter DumpFilter) any { return v }

func (d *enumDescriptor) Validate(rc *RunContext, loc Loc, v any) {}

// valuesEqual compares enum members leniently across raw numeric forms so a
// wire value like json.Number("2") matches an int member 2.
func valuesEqual(a, b any) bool {
	if a == b {
		return true
	}
	if ai, ok := coerceStrictInt64(a); ok {
		if bi, ok := coerceStrictInt64(b); ok {
			return ai == bi
		}
	}
	return false
}

// coerceStrictInt64 is coerceInt64 minus the string form; enum matching must
// not conflate "2" with 2.
func coerceStrictInt64(v any) (int64, bool) {
	if _, isStr := v.(string); isStr {
		return 0, false
	}
	return coerceInt64(v)
}

// reprValue renders a value for reprs, error messages and map key ordering.
func reprValue(v any) string {
	if IsUnset(v) {
		return "Unset"
	}
	return textutil.Repr(v)
}
