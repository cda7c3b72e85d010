package server

import (
	"net/http"

	"github.com/simonvc/tradebook/internal/api"
	"github.com/simonvc/tradebook/internal/ledger"
)

func (s *Server) masterData(w http.ResponseWriter, r *http.Request) {
	md, err := s.coord.ListMasterData(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, md)
}

func (s *Server) createCommodity(w http.ResponseWriter, r *http.Request) {
	var req api.MasterRequest
	if !s.decode(w, r, &req) {
		return
	}
	c, err := s.coord.CreateCommodity(r.Context(), ledger.Commodity{ID: req.ID, Name: req.Name})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) createSupplier(w http.ResponseWriter, r *http.Request) {
	var req api.MasterRequest
	if !s.decode(w, r, &req) {
		return
	}
	sup, err := s.coord.CreateSupplier(r.Context(), ledger.Supplier{
		ID: req.ID, Name: req.Name, ContactDetails: req.ContactDetails,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sup)
}

func (s *Server) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req api.MasterRequest
	if !s.decode(w, r, &req) {
		return
	}
	c, err := s.coord.CreateCustomer(r.Context(), ledger.Customer{
		ID: req.ID, Name: req.Name, ContactDetails: req.ContactDetails, DefaultTerms: req.DefaultTerms,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) createFinancier(w http.ResponseWriter, r *http.Request) {
	var req api.MasterRequest
	if !s.decode(w, r, &req) {
		return
	}
	f, err := s.coord.CreateFinancier(r.Context(), ledger.Financier{
		ID: req.ID, Name: req.Name, FundingTerms: req.FundingTerms,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}
