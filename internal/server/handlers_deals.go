package server

import (
	"net/http"

	"github.com/simonvc/tradebook/internal/api"
)

func (s *Server) createDeal(w http.ResponseWriter, r *http.Request) {
	var req api.DealRequest
	if !s.decode(w, r, &req) {
		return
	}
	in, err := req.Input()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	deal, err := s.coord.CreateDeal(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, deal)
}

func (s *Server) listDeals(w http.ResponseWriter, r *http.Request) {
	deals, err := s.coord.GetDeals(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(deals))
}

func (s *Server) getDeal(w http.ResponseWriter, r *http.Request) {
	deal, err := s.coord.GetDeal(r.Context(), pathID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deal)
}

func (s *Server) updateDeal(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	var req api.DealRequest
	if !s.decode(w, r, &req) {
		return
	}
	in, err := req.Input()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	deal, err := s.coord.UpdateDeal(r.Context(), id, in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deal)
}

func (s *Server) deleteDeal(w http.ResponseWriter, r *http.Request) {
	if err := s.coord.DeleteDeal(r.Context(), pathID(r)); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) recordDelivery(w http.ResponseWriter, r *http.Request) {
	var req api.DeliveryRequest
	if !s.decode(w, r, &req) {
		return
	}
	in, err := req.Input(req.DealID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	delivery, err := s.coord.RecordDelivery(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, delivery)
}

func (s *Server) updateDelivery(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	var req api.DeliveryFields
	if !s.decode(w, r, &req) {
		return
	}
	in, err := req.Input("")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	delivery, err := s.coord.UpdateDelivery(r.Context(), id, in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, delivery)
}

func (s *Server) deleteDelivery(w http.ResponseWriter, r *http.Request) {
	if err := s.coord.DeleteDelivery(r.Context(), pathID(r)); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
