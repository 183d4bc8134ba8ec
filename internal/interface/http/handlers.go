package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/afcalink/afcalink-backoffice/internal/application/command"
	"github.com/afcalink/afcalink-backoffice/internal/application/query"
	"github.com/afcalink/afcalink-backoffice/internal/domain/notification"
	"github.com/afcalink/afcalink-backoffice/internal/domain/payment"
	"github.com/afcalink/afcalink-backoffice/internal/domain/shared"
	"github.com/afcalink/afcalink-backoffice/internal/domain/status"
	"github.com/afcalink/afcalink-backoffice/internal/domain/student"
	"github.com/afcalink/afcalink-backoffice/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// writeDomainError maps a domain error onto an HTTP status.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case shared.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, shared.ErrAlreadyExists):
		writeJSONError(w, http.StatusConflict, "already_exists", err.Error())
	case errors.Is(err, shared.ErrValidation),
		errors.Is(err, shared.ErrInvalidID),
		errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrEmptyValue),
		errors.Is(err, shared.ErrNegativeValue),
		errors.Is(err, shared.ErrInvalidEntity),
		errors.Is(err, student.ErrInvalidFullName),
		errors.Is(err, student.ErrInvalidAmount),
		errors.Is(err, payment.ErrInvalidAmount),
		errors.Is(err, payment.ErrInvalidStatus):
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
	default:
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return false
	}
	return true
}

// ══════════════════════════════════════════════════════════════════════════════
// DTOs
// ══════════════════════════════════════════════════════════════════════════════

type studentDTO struct {
	ID            int64  `json:"id"`
	FullName      string `json:"full_name"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`
	Country       string `json:"country,omitempty"`
	StudyLevel    string `json:"study_level,omitempty"`
	ProgramChoice string `json:"program_choice,omitempty"`
	University    string `json:"university,omitempty"`
	StatusID      *int64 `json:"status_id"`
	AgentName     string `json:"agent_name,omitempty"`
	TotalAmount   int64  `json:"total_amount"`
	Currency      string `json:"currency"`
	Notes         string `json:"notes,omitempty"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

func toStudentDTO(s *student.Student) studentDTO {
	var statusID *int64
	if s.StatusID != nil {
		v := int64(*s.StatusID)
		statusID = &v
	}
	return studentDTO{
		ID:            int64(s.ID),
		FullName:      s.FullName,
		Phone:         s.Phone,
		Email:         s.Email,
		Country:       s.Country,
		StudyLevel:    s.StudyLevel,
		ProgramChoice: s.ProgramChoice,
		University:    s.University,
		StatusID:      statusID,
		AgentName:     s.AgentName,
		TotalAmount:   int64(s.TotalAmount),
		Currency:      s.Currency,
		Notes:         s.Notes,
		CreatedAt:     s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     s.UpdatedAt.Format(time.RFC3339),
	}
}

type paymentDTO struct {
	ID              int64  `json:"id"`
	StudentID       int64  `json:"student_id"`
	Type            string `json:"type,omitempty"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	Mode            string `json:"mode,omitempty"`
	Date            string `json:"date,omitempty"`
	Status          string `json:"status"`
	CreatedByUserID *int64 `json:"created_by_user_id,omitempty"`
	CreatedAt       string `json:"created_at"`
}

func toPaymentDTO(p *payment.Payment) paymentDTO {
	return paymentDTO{
		ID:              int64(p.ID),
		StudentID:       int64(p.StudentID),
		Type:            p.Type,
		Amount:          int64(p.Amount),
		Currency:        p.Currency,
		Mode:            p.Mode,
		Date:            p.Date,
		Status:          string(p.Status),
		CreatedByUserID: p.CreatedByUserID,
		CreatedAt:       p.CreatedAt.Format(time.RFC3339),
	}
}

type studentPayload struct {
	FullName      string `json:"full_name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Country       string `json:"country"`
	StudyLevel    string `json:"study_level"`
	ProgramChoice string `json:"program_choice"`
	University    string `json:"university"`
	StatusID      *int64 `json:"status_id"`
	AgentName     string `json:"agent_name"`
	TotalAmount   int64  `json:"total_amount"`
	Currency      string `json:"currency"`
	Notes         string `json:"notes"`
}

func (p studentPayload) statusID() *status.StatusID {
	if p.StatusID == nil {
		return nil
	}
	v := status.StatusID(*p.StatusID)
	return &v
}

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSONError(w, http.StatusNotFound, "not_found", "Unknown endpoint")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "afcalink-backoffice",
		"status":  "ok",
	})
}

func (s *Server) handleLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		if err := s.deps.HealthChecker.Ping(r.Context()); err != nil {
			writeJSONError(w, http.StatusServiceUnavailable, "unhealthy", "database unreachable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// ══════════════════════════════════════════════════════════════════════════════
// STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleListStatuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := s.deps.ListStatuses.Handle(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	type statusDTO struct {
		ID        int64  `json:"id"`
		Name      string `json:"name"`
		SortOrder int    `json:"sort_order"`
	}
	out := make([]statusDTO, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, statusDTO{ID: int64(st.ID), Name: st.Name, SortOrder: st.SortOrder})
	}
	writeJSON(w, http.StatusOK, out)
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var body studentPayload
	if !decodeBody(w, r, &body) {
		return
	}

	result, err := s.deps.CreateStudent.Handle(r.Context(), command.CreateStudentCommand{
		FullName:        body.FullName,
		Phone:           body.Phone,
		Email:           body.Email,
		Country:         body.Country,
		StudyLevel:      body.StudyLevel,
		ProgramChoice:   body.ProgramChoice,
		University:      body.University,
		InitialStatusID: body.statusID(),
		AgentName:       body.AgentName,
		TotalAmount:     student.Amount(body.TotalAmount),
		Currency:        body.Currency,
		Notes:           body.Notes,
		ActingUserID:    actingUserID(r.Context()),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toStudentDTO(result.Student))
}

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	q := query.ListStudentsQuery{
		Search:    r.URL.Query().Get("search"),
		AgentName: r.URL.Query().Get("agent"),
	}
	if raw := getQueryParamInt(r, "status_id", 0); raw > 0 {
		id := status.StatusID(raw)
		q.StatusID = &id
	}

	result, err := s.deps.ListStudents.Handle(r.Context(), q)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]studentDTO, 0, len(result.Students))
	for _, st := range result.Students {
		out = append(out, toStudentDTO(st))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	stud, err := s.deps.GetStudent.Handle(r.Context(), query.GetStudentQuery{StudentID: student.StudentID(id)})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toStudentDTO(stud))
}

func (s *Server) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	var body studentPayload
	if !decodeBody(w, r, &body) {
		return
	}

	result, err := s.deps.UpdateStudent.Handle(r.Context(), command.UpdateStudentCommand{
		StudentID:     student.StudentID(id),
		FullName:      body.FullName,
		Phone:         body.Phone,
		Email:         body.Email,
		Country:       body.Country,
		StudyLevel:    body.StudyLevel,
		ProgramChoice: body.ProgramChoice,
		University:    body.University,
		StatusID:      body.statusID(),
		AgentName:     body.AgentName,
		TotalAmount:   student.Amount(body.TotalAmount),
		Currency:      body.Currency,
		Notes:         body.Notes,
		ActingUserID:  actingUserID(r.Context()),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !result.Applied {
		writeJSONError(w, http.StatusNotFound, "not_found", "student not found")
		return
	}

	writeJSON(w, http.StatusOK, toStudentDTO(result.Student))
}

func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	result, err := s.deps.DeleteStudent.Handle(r.Context(), command.DeleteStudentCommand{
		StudentID:    student.StudentID(id),
		ActingUserID: actingUserID(r.Context()),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !result.Applied {
		writeJSONError(w, http.StatusNotFound, "not_found", "student not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) handleSetStudentStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	var body struct {
		StatusID *int64 `json:"status_id"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	var toStatus *status.StatusID
	if body.StatusID != nil {
		v := status.StatusID(*body.StatusID)
		toStatus = &v
	}

	result, err := s.deps.SetStudentStatus.Handle(r.Context(), command.SetStudentStatusCommand{
		StudentID:    student.StudentID(id),
		ToStatusID:   toStatus,
		ActingUserID: actingUserID(r.Context()),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !result.Applied {
		writeJSONError(w, http.StatusNotFound, "not_found", "student not found")
		return
	}

	writeJSON(w, http.StatusOK, toStudentDTO(result.Student))
}

func (s *Server) handleStudentHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	result, err := s.deps.StudentHistory.Handle(r.Context(), query.StudentHistoryQuery{StudentID: student.StudentID(id)})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	type entryDTO struct {
		FromStatusID    *int64 `json:"from_status_id"`
		FromStatusName  string `json:"from_status_name,omitempty"`
		ToStatusID      *int64 `json:"to_status_id"`
		ToStatusName    string `json:"to_status_name,omitempty"`
		ChangedByUserID *int64 `json:"changed_by_user_id,omitempty"`
		ChangedAt       string `json:"changed_at"`
	}
	out := make([]entryDTO, 0, len(result.Entries))
	for _, e := range result.Entries {
		var from, to *int64
		if e.FromStatusID != nil {
			v := int64(*e.FromStatusID)
			from = &v
		}
		if e.ToStatusID != nil {
			v := int64(*e.ToStatusID)
			to = &v
		}
		out = append(out, entryDTO{
			FromStatusID:    from,
			FromStatusName:  e.FromStatusName,
			ToStatusID:      to,
			ToStatusName:    e.ToStatusName,
			ChangedByUserID: e.ChangedByUserID,
			ChangedAt:       e.ChangedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSetStudentFinancial(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	var body struct {
		TotalAmount int64  `json:"total_amount"`
		Currency    string `json:"currency"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	result, err := s.deps.SetStudentFinancial.Handle(r.Context(), command.SetStudentFinancialCommand{
		StudentID:   student.StudentID(id),
		TotalAmount: student.Amount(body.TotalAmount),
		Currency:    body.Currency,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !result.Applied {
		writeJSONError(w, http.StatusNotFound, "not_found", "student not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (s *Server) handleComputeBalance(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	result, err := s.deps.ComputeBalance.Handle(r.Context(), query.ComputeBalanceQuery{StudentID: student.StudentID(id)})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"student_id":   int64(result.StudentID),
		"currency":     result.Currency,
		"total_amount": int64(result.Balance.TotalAmount),
		"paid":         int64(result.Balance.Paid),
		"balance":      result.Balance.Balance,
	})
}

func (s *Server) handleListStudentPayments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	sid := student.StudentID(id)
	result, err := s.deps.ListPayments.Handle(r.Context(), query.ListPaymentsQuery{StudentID: &sid})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]paymentDTO, 0, len(result.Payments))
	for _, p := range result.Payments {
		out = append(out, toPaymentDTO(p))
	}
	writeJSON(w, http.StatusOK, out)
}

// ══════════════════════════════════════════════════════════════════════════════
// PAYMENT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	var body struct {
		StudentID int64  `json:"student_id"`
		Type      string `json:"type"`
		Amount    int64  `json:"amount"`
		Currency  string `json:"currency"`
		Mode      string `json:"mode"`
		Date      string `json:"date"`
		Status    string `json:"status"`

		ReceiptOriginalFilename string `json:"receipt_original_filename"`
		ReceiptStoredPath       string `json:"receipt_stored_path"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	paymentStatus := payment.Status(body.Status)
	if body.Status == "" {
		paymentStatus = payment.StatusPending
	}

	result, err := s.deps.RecordPayment.Handle(r.Context(), command.RecordPaymentCommand{
		StudentID:               student.StudentID(body.StudentID),
		Type:                    body.Type,
		Amount:                  student.Amount(body.Amount),
		Currency:                body.Currency,
		Mode:                    body.Mode,
		Date:                    body.Date,
		Status:                  paymentStatus,
		ReceiptOriginalFilename: body.ReceiptOriginalFilename,
		ReceiptStoredPath:       body.ReceiptStoredPath,
		ActingUserID:            actingUserID(r.Context()),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !result.Applied {
		writeJSONError(w, http.StatusNotFound, "not_found", "student not found")
		return
	}

	writeJSON(w, http.StatusCreated, toPaymentDTO(result.Payment))
}

func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ListPayments.Handle(r.Context(), query.ListPaymentsQuery{
		PendingOnly: getQueryParamBool(r, "pending"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]paymentDTO, 0, len(result.Payments))
	for _, p := range result.Payments {
		out = append(out, toPaymentDTO(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleConfirmPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	result, err := s.deps.ConfirmPayment.Handle(r.Context(), command.ConfirmPaymentCommand{
		PaymentID:    payment.PaymentID(id),
		ActingUserID: actingUserID(r.Context()),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !result.Applied {
		writeJSONError(w, http.StatusNotFound, "not_found", "payment not found")
		return
	}

	writeJSON(w, http.StatusOK, toPaymentDTO(result.Payment))
}

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// requireActingUser resolves the acting user or writes a 401.
func requireActingUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	if id := actingUserID(r.Context()); id != nil {
		return *id, true
	}
	writeJSONError(w, http.StatusUnauthorized, "missing_user", "X-Acting-User header is required")
	return 0, false
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireActingUser(w, r)
	if !ok {
		return
	}

	result, err := s.deps.ListNotifications.Handle(r.Context(), query.ListNotificationsQuery{
		UserID:     userID,
		UnreadOnly: getQueryParamBool(r, "unread"),
		Limit:      getQueryParamInt(r, "limit", 0),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	type notificationDTO struct {
		ID        int64  `json:"id"`
		Title     string `json:"title"`
		Message   string `json:"message"`
		Type      string `json:"type"`
		Link      string `json:"link,omitempty"`
		IsRead    bool   `json:"is_read"`
		CreatedAt string `json:"created_at"`
	}
	out := make([]notificationDTO, 0, len(result.Notifications))
	for _, n := range result.Notifications {
		out = append(out, notificationDTO{
			ID:        int64(n.ID),
			Title:     n.Title,
			Message:   n.Message,
			Type:      string(n.Type),
			Link:      n.Link,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireActingUser(w, r)
	if !ok {
		return
	}

	count, err := s.deps.ListNotifications.CountUnread(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"unread": count})
}

func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireActingUser(w, r)
	if !ok {
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	err = s.deps.MarkNotificationRead.Handle(r.Context(), command.MarkNotificationReadCommand{
		NotificationID: notification.NotificationID(id),
		UserID:         userID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"read": true})
}

func (s *Server) handleMarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireActingUser(w, r)
	if !ok {
		return
	}

	err := s.deps.MarkNotificationRead.HandleAll(r.Context(), command.MarkAllNotificationsReadCommand{UserID: userID})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"read": true})
}

// ══════════════════════════════════════════════════════════════════════════════
// USER HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FullName string `json:"full_name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	result, err := s.deps.CreateUser.Handle(r.Context(), command.CreateUserCommand{
		FullName: body.FullName,
		Email:    body.Email,
		Password: body.Password,
		Role:     user.Role(body.Role),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":        result.User.ID,
		"full_name": result.User.FullName,
		"email":     result.User.Email,
		"role":      string(result.User.Role),
	})
}
