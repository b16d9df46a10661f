package queue

// Item is the minimal data placed on the queue.
// Workers fetch the full Task from the DB using the ID,
// keeping the queue lightweight and the stored record authoritative.
type Item struct {
	TaskID string
	Name   string
}
