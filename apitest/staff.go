package apitest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"licorera-pos/model"
)

func (s *Server) registerStaffRoutes(r *mux.Router) {
	r.HandleFunc("/staff", s.requireKey(s.handleListStaff)).Methods("GET")
	r.HandleFunc("/staff", s.requireKey(s.handleCreateStaff)).Methods("POST")
	r.HandleFunc("/staff/payments", s.requireKey(s.handleCreatePayment)).Methods("POST")
	r.HandleFunc("/staff/payments", s.requireKey(s.handleListPayments)).Methods("GET")
	r.HandleFunc("/staff/payments/{id}", s.requireKey(s.handleDeletePayment)).Methods("DELETE")
	r.HandleFunc("/staff/shifts/{id}", s.requireKey(s.handleDeleteShift)).Methods("DELETE")
	r.HandleFunc("/staff/{id}", s.requireKey(s.handleUpdateStaff)).Methods("PUT")
	r.HandleFunc("/staff/{id}", s.requireKey(s.handleDeleteStaff)).Methods("DELETE")
	r.HandleFunc("/staff/{id}/password", s.requireKey(s.handleStaffPassword)).Methods("PUT")
	r.HandleFunc("/staff/{id}/clock-in", s.requireKey(s.handleClockIn)).Methods("POST")
	r.HandleFunc("/staff/{id}/clock-out", s.requireKey(s.handleClockOut)).Methods("POST")
	r.HandleFunc("/staff/{id}/shifts", s.requireKey(s.handleListShifts)).Methods("GET")
}

func (s *Server) handleListStaff(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Staff, len(s.staff))
	copy(out, s.staff)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateStaff(w http.ResponseWriter, r *http.Request) {
	var req model.StaffCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	st := model.Staff{
		ID:       s.nextStaffID,
		Username: req.Username,
		Name:     req.Name,
		Role:     req.Role,
		Shift:    req.Shift,
		Active:   true,
		PayType:  req.PayType,
		PayRate:  req.PayRate,
	}
	if st.Role == "" {
		st.Role = "cashier"
	}
	if req.Active != nil {
		st.Active = *req.Active
	}
	s.nextStaffID++
	s.staff = append(s.staff, st)
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleUpdateStaff(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var patch model.StaffUpdate
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.staff {
		if s.staff[i].ID != id {
			continue
		}
		if patch.Username != nil {
			s.staff[i].Username = *patch.Username
		}
		if patch.Name != nil {
			s.staff[i].Name = *patch.Name
		}
		if patch.Role != nil {
			s.staff[i].Role = *patch.Role
		}
		if patch.Shift != nil {
			s.staff[i].Shift = *patch.Shift
		}
		if patch.Active != nil {
			s.staff[i].Active = *patch.Active
		}
		if patch.PayType != nil {
			s.staff[i].PayType = *patch.PayType
		}
		if patch.PayRate != nil {
			s.staff[i].PayRate = *patch.PayRate
		}
		writeJSON(w, http.StatusOK, s.staff[i])
		return
	}
	writeError(w, http.StatusNotFound, "staff not found")
}

func (s *Server) handleDeleteStaff(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.staff {
		if s.staff[i].ID == id {
			s.staff = append(s.staff[:i], s.staff[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
			return
		}
	}
	writeError(w, http.StatusNotFound, "staff not found")
}

func (s *Server) handleStaffPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password == "" {
		writeError(w, http.StatusBadRequest, "password required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleClockIn(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	s.mu.Lock()
	defer s.mu.Unlock()
	sh := model.StaffShift{
		ID:      s.nextShiftID,
		StaffID: id,
		ClockIn: time.Now().Format(time.RFC3339),
	}
	s.nextShiftID++
	s.shifts = append(s.shifts, sh)
	writeJSON(w, http.StatusOK, sh)
}

func (s *Server) handleClockOut(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.shifts) - 1; i >= 0; i-- {
		if s.shifts[i].StaffID == id && s.shifts[i].ClockOut == "" {
			s.shifts[i].ClockOut = time.Now().Format(time.RFC3339)
			writeJSON(w, http.StatusOK, s.shifts[i])
			return
		}
	}
	writeError(w, http.StatusBadRequest, "no open shift")
}

func (s *Server) handleListShifts(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.StaffShift, 0)
	for _, sh := range s.shifts {
		if sh.StaffID == id {
			out = append(out, sh)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteShift(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.shifts {
		if s.shifts[i].ID == id {
			s.shifts = append(s.shifts[:i], s.shifts[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
			return
		}
	}
	writeError(w, http.StatusNotFound, "shift not found")
}

func (s *Server) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	var req model.PaymentCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p := model.StaffPayment{
		ID:          s.nextPayID,
		StaffID:     req.StaffID,
		Amount:      req.Amount,
		Method:      req.Method,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
		PaidAt:      time.Now().Format(time.RFC3339),
		Notes:       req.Notes,
	}
	s.nextPayID++
	s.payments = append(s.payments, p)
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	staffID := 0
	if v := r.URL.Query().Get("staff_id"); v != "" {
		staffID, _ = strconv.Atoi(v)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.StaffPayment, 0)
	for _, p := range s.payments {
		if staffID == 0 || p.StaffID == staffID {
			out = append(out, p)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeletePayment(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.payments {
		if s.payments[i].ID == id {
			s.payments = append(s.payments[:i], s.payments[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
			return
		}
	}
	writeError(w, http.StatusNotFound, "payment not found")
}
