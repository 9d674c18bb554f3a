package scrapestorm

import (
	"fmt"
	"net"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// Action is a remote operation name. Its value is the REST path segment.
type Action string

const (
	ActionCopy      Action = "copy"
	ActionDataClear Action = "data/clear"
	ActionDelete    Action = "delete"
	ActionList      Action = "list"
	ActionStart     Action = "start"
	ActionStatus    Action = "status"
	ActionStop      Action = "stop"
)

// Actions lists every action in path order.
var Actions = []Action{
	ActionCopy,
	ActionDataClear,
	ActionDelete,
	ActionList,
	ActionStart,
	ActionStatus,
	ActionStop,
}

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	for _, known := range Actions {
		if a == known {
			return true
		}
	}
	return false
}

// ParseAction resolves a path segment or a short CLI name ("clear").
func ParseAction(name string) (Action, error) {
	trimmed := strings.ToLower(strings.TrimSpace(name))
	if trimmed == "clear" {
		return ActionDataClear, nil
	}
	a := Action(trimmed)
	if !a.Valid() {
		return "", fmt.Errorf("unknown action %q", name)
	}
	return a, nil
}

const (
	DefaultHost = "localhost"
	DefaultPort = 8080

	apiPrefix = "/rest/v1/task/"
)

// Endpoint locates a ScrapeStorm server.
type Endpoint struct {
	Host string
	Port int
}

// DefaultEndpoint is localhost:8080.
func DefaultEndpoint() Endpoint {
	return Endpoint{Host: DefaultHost, Port: DefaultPort}
}

// normalized fills empty fields with defaults.
func (e Endpoint) normalized() Endpoint {
	if strings.TrimSpace(e.Host) == "" {
		e.Host = DefaultHost
	} else {
		e.Host = strings.TrimSpace(e.Host)
	}
	if e.Port <= 0 {
		e.Port = DefaultPort
	}
	return e
}

// String returns host:port.
func (e Endpoint) String() string {
	n := e.normalized()
	return net.JoinHostPort(n.Host, strconv.Itoa(n.Port))
}

// ParseEndpoint accepts "host", "host:port" or "http://host:port".
func ParseEndpoint(addr string) (Endpoint, error) {
	trimmed := strings.TrimSpace(addr)
	if trimmed == "" {
		return DefaultEndpoint(), nil
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return Endpoint{}, fmt.Errorf("parse endpoint %q: %w", addr, err)
	}
	if u.Scheme != "http" {
		return Endpoint{}, fmt.Errorf("parse endpoint %q: unsupported scheme %q", addr, u.Scheme)
	}
	ep := Endpoint{Host: u.Hostname()}
	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil || port <= 0 || port > 65535 {
			return Endpoint{}, fmt.Errorf("parse endpoint %q: invalid port %q", addr, p)
		}
		ep.Port = port
	}
	return ep.normalized(), nil
}

// BuildURL composes http://{host}:{port}/rest/v1/task/[{taskID}/]{action}[?query].
//
// A zero taskID omits the id segment. Query entries whose value is falsy
// (nil, "", false, numeric zero, empty slice or map) are dropped rather than
// sent empty. Remaining values are percent-encoded and sorted by key.
func BuildURL(ep Endpoint, action Action, taskID int64, query map[string]any) string {
	n := ep.normalized()
	var b strings.Builder
	b.WriteString("http://")
	b.WriteString(net.JoinHostPort(n.Host, strconv.Itoa(n.Port)))
	b.WriteString(apiPrefix)
	if taskID != 0 {
		b.WriteString(strconv.FormatInt(taskID, 10))
		b.WriteByte('/')
	}
	b.WriteString(string(action))

	values := url.Values{}
	for k, v := range query {
		v = indirect(v)
		if !truthy(v) {
			continue
		}
		values.Set(k, fmt.Sprint(v))
	}
	if len(values) > 0 {
		b.WriteByte('?')
		b.WriteString(values.Encode())
	}
	return b.String()
}

// indirect follows pointers so *string and friends encode as their values.
func indirect(v any) any {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		if _, ok := rv.Interface().(fmt.Stringer); ok {
			break
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}

func truthy(v any) bool {
	if v == nil {
		return false
	}
	switch x := v.(type) {
	case string:
		return x != ""
	case bool:
		return x
	case fmt.Stringer:
		return x.String() != ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Slice, reflect.Map, reflect.Array, reflect.String:
		return rv.Len() > 0
	}
	return true
}
