package server

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"goldmart/internal/checkout"
	"goldmart/internal/domain"
)

// editor returns the signed-in user's address panel over a freshly loaded
// book. Callers hold s.mu.
func (s *Server) editor(c *gin.Context) (*checkout.Editor, bool) {
	uid := s.d.Session.UserID()
	b, err := checkout.OpenBook(s.d.Store, uid)
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	ed, ok := s.editors[uid]
	if !ok {
		ed = checkout.NewEditor(b)
		s.editors[uid] = ed
	} else {
		ed.Attach(b)
	}
	return ed, true
}

func (s *Server) bookView(c *gin.Context, status int, ed *checkout.Editor) {
	b := ed.Book()
	_, sel, ok := b.Selected()
	if !ok {
		sel = -1
	}
	h := gin.H{
		"addresses": b.List(),
		"selected":  sel,
		"mode":      ed.Mode().String(),
		"cart":      s.cartView(),
	}
	if ed.Mode() == checkout.ModeEditing {
		h["editing"] = ed.Editing()
		h["draft"] = ed.Draft()
	}
	c.JSON(status, h)
}

func pathIndex(c *gin.Context) (int, error) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil || i < 0 {
		return 0, domain.ErrValidation("index must be a non-negative integer")
	}
	return i, nil
}

func fill(ed *checkout.Editor, fields map[string]string) error {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := ed.SetField(k, fields[k]); err != nil {
			return err
		}
	}
	return nil
}

func addressFields(a domain.Address) map[string]string {
	return map[string]string{
		"name":        a.Name,
		"phone":       a.Phone,
		"street":      a.Street,
		"city":        a.City,
		"state":       a.State,
		"pincode":     a.Pincode,
		"locality":    a.Locality,
		"fullAddress": a.FullAddress,
	}
}

// saveWhole runs a whole address through the open form in one request. The
// form is closed again when the address is rejected.
func (s *Server) saveWhole(c *gin.Context, ed *checkout.Editor, a domain.Address, status int) {
	err := fill(ed, addressFields(a))
	if err == nil {
		err = ed.Submit()
	}
	if err != nil {
		ed.Cancel()
		s.fail(c, err)
		return
	}
	s.bookView(c, status, ed)
}

func (s *Server) handleCheckout(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ed, ok := s.editor(c)
	if !ok {
		return
	}
	s.bookView(c, http.StatusOK, ed)
}

func (s *Server) handleAddressAdd(c *gin.Context) {
	var a domain.Address
	if !s.bind(c, &a) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ed, ok := s.editor(c)
	if !ok {
		return
	}
	ed.StartAdd()
	s.saveWhole(c, ed, a, http.StatusCreated)
}

func (s *Server) handleAddressUpdate(c *gin.Context) {
	i, err := pathIndex(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	var a domain.Address
	if !s.bind(c, &a) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ed, ok := s.editor(c)
	if !ok {
		return
	}
	if err := ed.StartEdit(i); err != nil {
		s.fail(c, err)
		return
	}
	s.saveWhole(c, ed, a, http.StatusOK)
}

func (s *Server) handleAddressDelete(c *gin.Context) {
	i, err := pathIndex(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ed, ok := s.editor(c)
	if !ok {
		return
	}
	if err := ed.Delete(i); err != nil {
		s.fail(c, err)
		return
	}
	s.bookView(c, http.StatusOK, ed)
}

func (s *Server) handleChoose(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ed, ok := s.editor(c)
	if !ok {
		return
	}
	if err := ed.Choose(); err != nil {
		s.fail(c, err)
		return
	}
	s.bookView(c, http.StatusOK, ed)
}

// handleAddressSelect picks an address, opening the chooser first when the
// panel is only being viewed.
func (s *Server) handleAddressSelect(c *gin.Context) {
	i, err := pathIndex(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ed, ok := s.editor(c)
	if !ok {
		return
	}
	if ed.Mode() != checkout.ModeChoosing {
		if err := ed.Choose(); err != nil {
			s.fail(c, err)
			return
		}
	}
	if err := ed.Pick(i); err != nil {
		s.fail(c, err)
		return
	}
	s.bookView(c, http.StatusOK, ed)
}

func (s *Server) handleFormOpen(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ed, ok := s.editor(c)
	if !ok {
		return
	}
	ed.StartAdd()
	s.bookView(c, http.StatusOK, ed)
}

func (s *Server) handleFormEdit(c *gin.Context) {
	i, err := pathIndex(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ed, ok := s.editor(c)
	if !ok {
		return
	}
	if err := ed.StartEdit(i); err != nil {
		s.fail(c, err)
		return
	}
	s.bookView(c, http.StatusOK, ed)
}

// handleFormFields applies field edits to the open form, as typed.
func (s *Server) handleFormFields(c *gin.Context) {
	var fields map[string]string
	if !s.bind(c, &fields) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ed, ok := s.editor(c)
	if !ok {
		return
	}
	if err := fill(ed, fields); err != nil {
		s.fail(c, err)
		return
	}
	s.bookView(c, http.StatusOK, ed)
}

// handleFormSubmit saves the open form. A rejected draft keeps the form open.
func (s *Server) handleFormSubmit(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ed, ok := s.editor(c)
	if !ok {
		return
	}
	if err := ed.Submit(); err != nil {
		s.fail(c, err)
		return
	}
	s.bookView(c, http.StatusOK, ed)
}

func (s *Server) handleFormCancel(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ed, ok := s.editor(c)
	if !ok {
		return
	}
	ed.Cancel()
	s.bookView(c, http.StatusOK, ed)
}

// handleProceed snapshots the selected address and hands over to /payment.
func (s *Server) handleProceed(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ed, ok := s.editor(c)
	if !ok {
		return
	}
	a, err := checkout.Proceed(s.d.Store, s.d.Cart.Items(), ed.Book())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"address": a, "next": "/payment"})
}
