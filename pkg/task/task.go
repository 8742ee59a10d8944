package task

import (
	"slices"
	"time"

	"github.com/eventpro/eventpro/pkg/budget"
	"github.com/eventpro/eventpro/pkg/date"
	"github.com/eventpro/eventpro/pkg/deadline"
)

type Kind string

const (
	KindItem Kind = "item"
	KindSub  Kind = "sub"
)

// Task is a deadline-bearing projection of an item or a sub-item.
type Task struct {
	Id       string
	Name     string
	Deadline date.Date
	// ParentName is the owning item's name for sub-item tasks, empty otherwise.
	ParentName string
	Kind       Kind
}

// ScheduledTask is a task together with its urgency at a given instant.
type ScheduledTask struct {
	Task
	Status deadline.Status
}

// CollectTasks emits one task per item or sub-item with a deadline, item first and
// then its sub-items, in item order. A sub-item is emitted even if its parent has no
// deadline.
func CollectTasks(event budget.EventBudget) []Task {
	tasks := make([]Task, 0)
	for _, item := range event.Items {
		if hasDeadline(item.Deadline) {
			tasks = append(tasks, Task{
				Id:       item.Id,
				Name:     item.Name,
				Deadline: *item.Deadline,
				Kind:     KindItem,
			})
		}
		for _, sub := range item.SubItems {
			if !hasDeadline(sub.Deadline) {
				continue
			}
			tasks = append(tasks, Task{
				Id:         sub.Id,
				Name:       sub.Name,
				Deadline:   *sub.Deadline,
				ParentName: item.Name,
				Kind:       KindSub,
			})
		}
	}
	return tasks
}

// SortByDeadline returns a copy of tasks sorted ascending by deadline. Ties keep
// their emission order.
func SortByDeadline(tasks []Task) []Task {
	sorted := slices.Clone(tasks)
	slices.SortStableFunc(sorted, func(a, b Task) int {
		return a.Deadline.Compare(b.Deadline)
	})
	return sorted
}

// Upcoming returns the soonest limit tasks (all of them when limit <= 0) with their
// status at now. Overdue tasks are kept, they sort first.
func Upcoming(tasks []Task, now time.Time, limit int) []ScheduledTask {
	sorted := SortByDeadline(tasks)
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	result := make([]ScheduledTask, 0, len(sorted))
	for _, t := range sorted {
		result = append(result, ScheduledTask{Task: t, Status: deadline.Classify(&t.Deadline, now)})
	}
	return result
}

func hasDeadline(d *date.Date) bool {
	return d != nil && !d.IsZero()
}
