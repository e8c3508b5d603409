package optional_test

import (
	"encoding/json"
	"testing"

	. "github.com/onsi/gomega"

	"taskapi/pkg/optional"
)

type patchBody struct {
	Title       optional.Field[string] `json:"title"`
	Description optional.Field[string] `json:"description"`
	Completed   optional.Field[bool]   `json:"completed"`
}

func TestFieldAbsent(t *testing.T) {
	RegisterTestingT(t)

	var body patchBody
	err := json.Unmarshal([]byte(`{"title":"Buy groceries"}`), &body)

	Expect(err).To(BeNil())
	Expect(body.Title.IsSet()).To(BeTrue())
	Expect(body.Description.IsSet()).To(BeFalse())
	Expect(body.Description.IsNull()).To(BeFalse())

	title, ok := body.Title.Value()
	Expect(ok).To(BeTrue())
	Expect(title).To(Equal("Buy groceries"))
}

func TestFieldExplicitNull(t *testing.T) {
	RegisterTestingT(t)

	var body patchBody
	err := json.Unmarshal([]byte(`{"description":null}`), &body)

	Expect(err).To(BeNil())
	Expect(body.Description.IsSet()).To(BeTrue())
	Expect(body.Description.IsNull()).To(BeTrue())

	_, ok := body.Description.Value()
	Expect(ok).To(BeFalse())
}

func TestFieldZeroValueIsStillSet(t *testing.T) {
	RegisterTestingT(t)

	var body patchBody
	err := json.Unmarshal([]byte(`{"completed":false,"title":""}`), &body)

	Expect(err).To(BeNil())

	completed, ok := body.Completed.Value()
	Expect(ok).To(BeTrue())
	Expect(completed).To(BeFalse())

	title, ok := body.Title.Value()
	Expect(ok).To(BeTrue())
	Expect(title).To(Equal(""))
}

func TestFieldTypeMismatch(t *testing.T) {
	RegisterTestingT(t)

	var body patchBody
	err := json.Unmarshal([]byte(`{"completed":"yes"}`), &body)

	Expect(err).ToNot(BeNil())
}
