package reportshandler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"staffhub/internal/domain/attendance"
	"staffhub/internal/domain/employee"
	"staffhub/internal/domain/leave"
	"staffhub/internal/domain/payroll"
	"staffhub/internal/domain/reports"
	"staffhub/internal/transport/http/api"
	"staffhub/internal/transport/http/middleware"
	"staffhub/internal/transport/http/shared"
)

// exportLimit caps rows per export.
const exportLimit = 10000

type Handler struct {
	Attendance *attendance.Service
	Leave      *leave.Service
	Payroll    *payroll.Service
	Profiles   *employee.Store
}

func NewHandler(attendanceSvc *attendance.Service, leaveSvc *leave.Service, payrollSvc *payroll.Service, profiles *employee.Store) *Handler {
	return &Handler{Attendance: attendanceSvc, Leave: leaveSvc, Payroll: payrollSvc, Profiles: profiles}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Use(middleware.RequireElevated)
		r.Get("/summary", h.handleSummary)
		r.Get("/attendance.csv", h.handleAttendanceCSV)
		r.Get("/leaves.csv", h.handleLeavesCSV)
		r.Get("/payroll.csv", h.handlePayrollCSV)
		r.Get("/employees.csv", h.handleEmployeesCSV)
	})
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	from, to, ok := h.parseRange(w, r, reqID)
	if !ok {
		return
	}

	attendanceRows, err := h.Attendance.History(r.Context(), from, to, exportLimit, 0)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance summary failed", reqID)
		return
	}
	leaveRows, _, err := h.Leave.Store.ListAll(r.Context(), "", exportLimit, 0)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave summary failed", reqID)
		return
	}
	payrollRows, _, err := h.Payroll.List(r.Context(), 0, time.Now().UTC().Year(), exportLimit, 0)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll summary failed", reqID)
		return
	}

	api.Success(w, http.StatusOK, reqID, map[string]any{
		"attendance": reports.SummarizeAttendance(attendanceRows.Records),
		"leave":      reports.SummarizeLeave(leaveRows),
		"payroll":    reports.SummarizePayroll(payrollRows),
	})
}

func (h *Handler) handleAttendanceCSV(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	from, to, ok := h.parseRange(w, r, reqID)
	if !ok {
		return
	}

	result, err := h.Attendance.History(r.Context(), from, to, exportLimit, 0)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance export failed", reqID)
		return
	}
	writeCSVHeaders(w, "attendance.csv")
	if err := reports.WriteAttendanceCSV(w, result.Records); err != nil {
		logExportError("attendance", err)
	}
}

func (h *Handler) handleLeavesCSV(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	status := r.URL.Query().Get("status")

	rows, _, err := h.Leave.Store.ListAll(r.Context(), status, exportLimit, 0)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave export failed", reqID)
		return
	}
	writeCSVHeaders(w, "leaves.csv")
	if err := reports.WriteLeaveCSV(w, rows); err != nil {
		logExportError("leaves", err)
	}
}

func (h *Handler) handlePayrollCSV(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	month := queryInt(r, "month")
	year := queryInt(r, "year")

	rows, _, err := h.Payroll.List(r.Context(), month, year, exportLimit, 0)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll export failed", reqID)
		return
	}
	writeCSVHeaders(w, "payroll.csv")
	if err := reports.WritePayrollCSV(w, rows); err != nil {
		logExportError("payroll", err)
	}
}

func (h *Handler) handleEmployeesCSV(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	result, err := h.Profiles.ListProfiles(r.Context(), "", exportLimit, 0)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee export failed", reqID)
		return
	}
	writeCSVHeaders(w, "employees.csv")
	if err := reports.WriteEmployeesCSV(w, result.Profiles); err != nil {
		logExportError("employees", err)
	}
}

func (h *Handler) parseRange(w http.ResponseWriter, r *http.Request, reqID string) (time.Time, time.Time, bool) {
	from, err := shared.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid from date", reqID)
		return time.Time{}, time.Time{}, false
	}
	to, err := shared.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid to date", reqID)
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func writeCSVHeaders(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
}

func logExportError(name string, err error) {
	slog.Warn("csv export failed", "report", name, "error", err)
}

func queryInt(r *http.Request, key string) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return v
}
