package cache

import "context"

// NoopSnapshot discards everything; the cache becomes memory-only.
type NoopSnapshot struct{}

func (NoopSnapshot) Load(context.Context) (map[string]Entry, error) { return nil, nil }
func (NoopSnapshot) Store(context.Context, Entry) error             { return nil }
func (NoopSnapshot) Delete(context.Context, string) error           { return nil }
func (NoopSnapshot) Clear(context.Context) error                    { return nil }
func (NoopSnapshot) Close() error                                   { return nil }
