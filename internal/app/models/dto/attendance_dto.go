package dto

// QRPayload is the JSON blob encoded into a session QR code. Timestamp is
// ISO-8601; it doubles as the lookup key tying a scanned code back to the
// attendance record that stored it.
type QRPayload struct {
	ClassID     string `json:"classId" example:"1"`
	ClassName   string `json:"className" example:"Data Structures"`
	ProfessorID string `json:"professorId" example:"1"`
	Timestamp   string `json:"timestamp" example:"2025-09-15T09:05:00+08:00"`
}

// ScanRequest is the body of a professor-side scan submission: the decoded
// contents of a student's QR code, which is their display name.
type ScanRequest struct {
	StudentName string `json:"student_name" example:"Jane Doe"`
}

// ScanResponse is the fixed wire shape for scan operations.
type ScanResponse struct {
	Success       bool   `json:"success" example:"true"`
	Message       string `json:"message,omitempty" example:"Attendance marked for Jane Doe"`
	Error         string `json:"error,omitempty"`
	StudentName   string `json:"student_name,omitempty" example:"Jane Doe"`
	AlreadyMarked bool   `json:"already_marked,omitempty"`
}

// VerifyQRRequest is the body of a student-side QR verification call. The
// raw QR payload is passed through as a string of JSON.
type VerifyQRRequest struct {
	QRCodeData string `json:"qr_code_data" binding:"required"`
}

// ActivateScanResponse is returned when a professor activates scanning for
// the current session.
type ActivateScanResponse struct {
	Record       interface{} `json:"record"`
	QRData       QRPayload   `json:"qrData"`
	ScheduleTime string      `json:"scheduleTime" example:"09:00 - 10:30"`
}

// StudentQRResponse carries the payload a student renders as their
// personal QR code.
type StudentQRResponse struct {
	StudentName string `json:"studentName" example:"Jane Doe"`
	QRData      string `json:"qrData" example:"Jane Doe"`
}
