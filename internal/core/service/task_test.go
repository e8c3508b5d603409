package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/gomega"

	"taskapi/internal/core/domain"
	"taskapi/pkg/optional"
)

type stubRepo struct {
	created    domain.Task
	updateRefs int
	getRefs    int
}

func (r *stubRepo) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	r.created = task
	task.ID = 1

	return task, nil
}

func (r *stubRepo) Get(ctx context.Context, ref domain.TaskRef) (domain.Task, error) {
	r.getRefs++
	return domain.Task{ID: 1, Title: "stored"}, nil
}

func (r *stubRepo) List(ctx context.Context, filter domain.ListFilter) ([]domain.Task, error) {
	return nil, nil
}

func (r *stubRepo) Update(ctx context.Context, ref domain.TaskRef, patch domain.TaskPatch) (domain.Task, error) {
	r.updateRefs++
	return domain.Task{ID: 1}, nil
}

func (r *stubRepo) Delete(ctx context.Context, ref domain.TaskRef) error {
	return nil
}

func (r *stubRepo) Ping(ctx context.Context) error {
	return nil
}

func TestCreateAssignsIdentityAndTimestamps(t *testing.T) {
	RegisterTestingT(t)

	repo := &stubRepo{}
	svc := NewTaskService(repo, nil, nil)

	before := time.Now().UTC()
	_, err := svc.Create(context.Background(), domain.Task{Title: "fresh"})

	Expect(err).To(BeNil())
	Expect(repo.created.UUID).NotTo(Equal(uuid.Nil))
	Expect(repo.created.CreatedAt).To(Equal(repo.created.UpdatedAt))
	Expect(repo.created.CreatedAt.Before(before)).To(BeFalse())
}

func TestUpdateEmptyPatchSkipsWrite(t *testing.T) {
	RegisterTestingT(t)

	repo := &stubRepo{}
	svc := NewTaskService(repo, nil, nil)

	task, err := svc.Update(context.Background(), domain.SerialRef(1), domain.TaskPatch{})

	Expect(err).To(BeNil())
	Expect(task.Title).To(Equal("stored"))
	Expect(repo.updateRefs).To(Equal(0))
	Expect(repo.getRefs).To(Equal(1))
}

func TestUpdateNonEmptyPatchWrites(t *testing.T) {
	RegisterTestingT(t)

	repo := &stubRepo{}
	svc := NewTaskService(repo, nil, nil)

	patch := domain.TaskPatch{Title: optional.Some("renamed")}

	_, err := svc.Update(context.Background(), domain.SerialRef(1), patch)

	Expect(err).To(BeNil())
	Expect(repo.updateRefs).To(Equal(1))
}
