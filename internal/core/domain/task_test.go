package domain

import (
	"testing"
	"time"

	. "github.com/onsi/gomega"

	"taskapi/pkg/optional"
)

func TestParseStatus(t *testing.T) {
	RegisterTestingT(t)

	for _, valid := range []string{"todo", "in_progress", "done"} {
		status, err := ParseStatus(valid)

		Expect(err).To(BeNil())
		Expect(string(status)).To(Equal(valid))
	}

	_, err := ParseStatus("archived")
	Expect(err).To(HaveOccurred())

	_, err = ParseStatus("Done")
	Expect(err).To(HaveOccurred())
}

func TestParsePriority(t *testing.T) {
	RegisterTestingT(t)

	for _, valid := range []string{"low", "medium", "high"} {
		priority, err := ParsePriority(valid)

		Expect(err).To(BeNil())
		Expect(string(priority)).To(Equal(valid))
	}

	_, err := ParsePriority("urgent")
	Expect(err).To(HaveOccurred())
}

func TestTaskPatchEmpty(t *testing.T) {
	RegisterTestingT(t)

	Expect(TaskPatch{}.Empty()).To(BeTrue())
	Expect(TaskPatch{Title: optional.Some("x")}.Empty()).To(BeFalse())
	Expect(TaskPatch{Description: optional.Null[string]()}.Empty()).To(BeFalse())
}

func TestTaskPatchChangesStatusSyncsCompleted(t *testing.T) {
	RegisterTestingT(t)

	changes := TaskPatch{Status: optional.Some(StatusDone)}.Changes()

	Expect(changes["status"]).To(Equal("done"))
	Expect(changes["completed"]).To(Equal(true))

	changes = TaskPatch{Status: optional.Some(StatusInProgress)}.Changes()

	Expect(changes["status"]).To(Equal("in_progress"))
	Expect(changes["completed"]).To(Equal(false))
}

func TestTaskPatchChangesCompletedSyncsStatus(t *testing.T) {
	RegisterTestingT(t)

	changes := TaskPatch{Completed: optional.Some(true)}.Changes()

	Expect(changes["completed"]).To(Equal(true))
	Expect(changes["status"]).To(Equal("done"))

	changes = TaskPatch{Completed: optional.Some(false)}.Changes()

	Expect(changes["completed"]).To(Equal(false))
	Expect(changes["status"]).To(Equal("todo"))
}

func TestTaskPatchChangesNullClearsColumns(t *testing.T) {
	RegisterTestingT(t)

	changes := TaskPatch{
		Description: optional.Null[string](),
		DueDate:     optional.Null[time.Time](),
	}.Changes()

	Expect(changes).To(HaveKey("description"))
	Expect(changes["description"]).To(BeNil())
	Expect(changes).To(HaveKey("due_date"))
	Expect(changes["due_date"]).To(BeNil())
}

func TestTaskPatchChangesOnlySuppliedFields(t *testing.T) {
	RegisterTestingT(t)

	changes := TaskPatch{Title: optional.Some("renamed")}.Changes()

	Expect(changes).To(HaveLen(1))
	Expect(changes["title"]).To(Equal("renamed"))
}
