package checkout

import (
	"goldmart/internal/domain"
)

type Mode int

const (
	ModeViewing Mode = iota
	ModeChoosing
	ModeEditing
)

func (m Mode) String() string {
	switch m {
	case ModeChoosing:
		return "choosing"
	case ModeEditing:
		return "editing"
	}
	return "viewing"
}

// Editor drives the address panel of the checkout page:
// viewing -> choosing -> editing -> viewing.
type Editor struct {
	book      *Book
	mode      Mode
	editIndex int
	draft     domain.Address
}

func NewEditor(b *Book) *Editor {
	return &Editor{book: b, mode: ModeViewing, editIndex: -1}
}

// Attach moves the editor onto a freshly loaded copy of the book. The
// selection carries over while it is still in range; a form editing an
// address that no longer exists is dropped.
func (e *Editor) Attach(b *Book) {
	if _, i, ok := e.book.Selected(); ok && i < b.Len() {
		_ = b.Select(i)
	}
	e.book = b
	if e.mode == ModeEditing && e.editIndex >= b.Len() {
		e.Cancel()
	}
	if e.mode == ModeChoosing && b.Len() == 0 {
		e.mode = ModeViewing
	}
}

func (e *Editor) Mode() Mode { return e.mode }

func (e *Editor) Book() *Book { return e.book }

func (e *Editor) Draft() domain.Address { return e.draft }

// Editing reports the index under edit, or -1 while adding.
func (e *Editor) Editing() int { return e.editIndex }

func (e *Editor) Choose() error {
	if e.mode == ModeEditing {
		return domain.ErrConflict("finish editing the address first")
	}
	e.mode = ModeChoosing
	return nil
}

func (e *Editor) Pick(i int) error {
	if e.mode != ModeChoosing {
		return domain.ErrConflict("not choosing an address")
	}
	if err := e.book.Select(i); err != nil {
		return err
	}
	e.mode = ModeViewing
	return nil
}

func (e *Editor) StartAdd() {
	e.mode = ModeEditing
	e.editIndex = -1
	e.draft = domain.Address{}
}

func (e *Editor) StartEdit(i int) error {
	a, err := e.book.Get(i)
	if err != nil {
		return err
	}
	e.mode = ModeEditing
	e.editIndex = i
	e.draft = a
	return nil
}

// SetField updates one draft field by its form name. Phone and pincode keep
// digits only, up to their fixed length.
func (e *Editor) SetField(field, value string) error {
	if e.mode != ModeEditing {
		return domain.ErrConflict("no address form open")
	}
	switch field {
	case "name":
		e.draft.Name = value
	case "phone":
		e.draft.Phone = SanitizeDigits(value, domain.PhoneDigits)
	case "street":
		e.draft.Street = value
	case "city":
		e.draft.City = value
	case "state":
		e.draft.State = value
	case "pincode":
		e.draft.Pincode = SanitizeDigits(value, domain.PincodeDigits)
	case "locality":
		e.draft.Locality = value
	case "fullAddress":
		e.draft.FullAddress = value
	default:
		return domain.ErrValidation("unknown address field: " + field)
	}
	return nil
}

// Submit saves the draft. On a validation error the form stays open.
func (e *Editor) Submit() error {
	if e.mode != ModeEditing {
		return domain.ErrConflict("no address form open")
	}
	var err error
	if e.editIndex < 0 {
		err = e.book.Add(e.draft)
	} else {
		err = e.book.Update(e.editIndex, e.draft)
	}
	if err != nil {
		return err
	}
	e.Cancel()
	return nil
}

// Delete removes address i and keeps an open edit form pointing at the same
// address, or closes it when that address was the one removed.
func (e *Editor) Delete(i int) error {
	if err := e.book.Delete(i); err != nil {
		return err
	}
	if e.mode == ModeEditing && e.editIndex >= 0 {
		switch {
		case e.editIndex == i:
			e.Cancel()
		case e.editIndex > i:
			e.editIndex--
		}
	}
	return nil
}

func (e *Editor) Cancel() {
	e.mode = ModeViewing
	e.editIndex = -1
	e.draft = domain.Address{}
}
