package factory

import (
	"testing"

	. "github.com/onsi/gomega"

	"taskapi/internal/core/domain"
)

func TestNewTaskDefaults(t *testing.T) {
	RegisterTestingT(t)

	task := NewTask()

	Expect(task.ID).To(Equal(int64(0)))
	Expect(task.Status).To(Equal(domain.StatusTodo))
	Expect(task.Completed).To(BeFalse())
	Expect(task.Priority).To(Equal(domain.PriorityMedium))
	Expect(task.DueDate).To(BeNil())
	Expect(task.CreatedAt).To(Equal(task.UpdatedAt))
	Expect(task.Title).NotTo(BeEmpty())
}

func TestNewTaskAppliesOverrides(t *testing.T) {
	RegisterTestingT(t)

	description := "2 liters"

	task := NewTask(map[string]any{
		"Title":       "Buy milk",
		"Description": &description,
		"Completed":   true,
		"Status":      domain.StatusDone,
	})

	Expect(task.Title).To(Equal("Buy milk"))
	Expect(*task.Description).To(Equal("2 liters"))
	Expect(task.Completed).To(BeTrue())
	Expect(task.Status).To(Equal(domain.StatusDone))
	Expect(task.Priority).To(Equal(domain.PriorityMedium))
}

func TestNewTaskLaterOverridesWin(t *testing.T) {
	RegisterTestingT(t)

	task := NewTask(
		map[string]any{"Title": "first"},
		map[string]any{"Title": "second"},
	)

	Expect(task.Title).To(Equal("second"))
}
