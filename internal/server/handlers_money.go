package server

import (
	"net/http"

	"github.com/simonvc/tradebook/internal/api"
)

func (s *Server) recordPayment(w http.ResponseWriter, r *http.Request) {
	var req api.PaymentRequest
	if !s.decode(w, r, &req) {
		return
	}
	in, err := req.Input(req.DeliveryID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	payment, err := s.coord.RecordCustomerPayment(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, payment)
}

func (s *Server) listPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := s.coord.ListCustomerPayments(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(payments))
}

func (s *Server) updatePayment(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	var req api.PaymentFields
	if !s.decode(w, r, &req) {
		return
	}
	in, err := req.Input("")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	payment, err := s.coord.UpdateCustomerPayment(r.Context(), id, in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

func (s *Server) deletePayment(w http.ResponseWriter, r *http.Request) {
	if err := s.coord.DeleteCustomerPayment(r.Context(), pathID(r)); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) updateLoan(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	var req api.LoanUpdateRequest
	if !s.decode(w, r, &req) {
		return
	}
	u, err := req.Update()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	loan, err := s.coord.UpdateLoan(r.Context(), id, u)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loan)
}

func (s *Server) deleteLoan(w http.ResponseWriter, r *http.Request) {
	if err := s.coord.DeleteLoan(r.Context(), pathID(r)); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) recordRepayment(w http.ResponseWriter, r *http.Request) {
	var req api.RepaymentRequest
	if !s.decode(w, r, &req) {
		return
	}
	in, err := req.Input(req.LoanID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	repayment, err := s.coord.RecordRepayment(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, repayment)
}

func (s *Server) listRepayments(w http.ResponseWriter, r *http.Request) {
	repayments, err := s.coord.ListRepayments(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(repayments))
}

func (s *Server) updateRepayment(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	var req api.RepaymentFields
	if !s.decode(w, r, &req) {
		return
	}
	in, err := req.Input("")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	repayment, err := s.coord.UpdateRepayment(r.Context(), id, in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, repayment)
}

func (s *Server) deleteRepayment(w http.ResponseWriter, r *http.Request) {
	if err := s.coord.DeleteRepayment(r.Context(), pathID(r)); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
