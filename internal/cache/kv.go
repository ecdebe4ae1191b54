// Package cache provides the durable local key-value storage used to keep
// client-side state between runs.
package cache

// KV stores one string value per namespace. Read reports ok=false when
// nothing has been written yet.
type KV interface {
	Read(namespace string) (value string, ok bool, err error)
	Write(namespace, value string) error
}
