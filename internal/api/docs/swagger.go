package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// EnrollStudentResponse represents the response for a successful enrollment
type EnrollStudentResponse struct {
	StudentID string `json:"student_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	USN       string `json:"usn" example:"1MS21CS001"`
	Section   string `json:"section" example:"CS-A"`
	CreatedAt string `json:"created_at" example:"2024-01-01T00:00:00Z"`
}

// StudentData represents an enrolled student
type StudentData struct {
	StudentID string `json:"student_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	USN       string `json:"usn" example:"1MS21CS001"`
	Section   string `json:"section" example:"CS-A"`
	CreatedAt string `json:"created_at" example:"2024-01-01T00:00:00Z"`
}

// AttendanceData represents the outcome of one recognition run
type AttendanceData struct {
	AttendanceID      string   `json:"attendance_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Section           string   `json:"section" example:"CS-A"`
	FacesDetected     int      `json:"faces_detected" example:"24"`
	UnrecognizedFaces int      `json:"unrecognized_faces" example:"3"`
	RecognizedUSNs    []string `json:"recognized_usns" example:"1MS21CS001,1MS21CS002"`
	LatencyMs         int64    `json:"latency_ms" example:"120"`
}

// AttendanceHistoryData represents recent attendance records for a section
type AttendanceHistoryData struct {
	Section string           `json:"section" example:"CS-A"`
	Records []AttendanceData `json:"records"`
}

// SectionStatsData represents aggregate recognition statistics for a section
type SectionStatsData struct {
	Section          string  `json:"section" example:"CS-A"`
	Records          int64   `json:"records" example:"42"`
	AvgFacesDetected float64 `json:"avg_faces_detected" example:"23.5"`
	AvgRecognized    float64 `json:"avg_recognized" example:"21.2"`
	RecognitionRate  float64 `json:"recognition_rate" example:"0.9"`
	AvgLatencyMs     float64 `json:"avg_latency_ms" example:"118.4"`
	LastRecordAt     string  `json:"last_record_at,omitempty" example:"2024-01-01T08:30:00Z"`
}

// LiveTokenData represents a short-lived token for the live event feed
type LiveTokenData struct {
	Token     string `json:"token" example:"eyJhbGciOiJIUzI1NiIs..."`
	ExpiresIn int64  `json:"expires_in" example:"300"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
}

// EmptyResponse represents no content response (204)
type EmptyResponse struct{}

// HealthData represents health check response
type HealthData struct {
	Status  string `json:"status" example:"ok"`
	Version string `json:"version,omitempty" example:"0.1.0"`
}

func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "Chamada Attendance API",
		Version:     "v1.0.0",
		Description: "Classroom attendance by face recognition: enroll students per section and take attendance from a single classroom photo",
		Host:        "localhost:3000",
		Path:        "/v1",
	})

	endpoints := []*endpoint.EndPoint{
		// POST /v1/students - Enroll Student
		endpoint.New(
			endpoint.POST,
			"/students",
			endpoint.WithTags("Students"),
			endpoint.WithSummary("Enroll a student"),
			endpoint.WithDescription("Enrolls a student from a reference photo containing exactly one face. The face embedding is normalized and stored as the student's gallery entry."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EnrollStudentResponse{}, "201", "Student enrolled successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "usn, section and image are required"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "STUDENT_ALREADY_EXISTS", Message: "Student already enrolled with this USN"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "NO_FACE_DETECTED", Message: "No face detected in image"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "MULTIPLE_FACES", Message: "Multiple faces detected"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "DEGENERATE_VECTOR", Message: "Embedding has zero or non-finite norm"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// GET /v1/students/:usn - Get Student
		endpoint.New(
			endpoint.GET,
			"/students/{usn}",
			endpoint.WithTags("Students"),
			endpoint.WithSummary("Get an enrolled student"),
			endpoint.WithDescription("Retrieves enrollment information for the given USN"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("usn", parameter.Path, parameter.WithDescription("University serial number")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(StudentData{}, "200", "Student retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "STUDENT_NOT_FOUND", Message: "Student not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// DELETE /v1/students/:usn - Delete Student
		endpoint.New(
			endpoint.DELETE,
			"/students/{usn}",
			endpoint.WithTags("Students"),
			endpoint.WithSummary("Delete an enrolled student"),
			endpoint.WithDescription("Deletes the student and their stored embedding for the given USN"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("usn", parameter.Path, parameter.WithDescription("University serial number")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "204", "Student deleted successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "STUDENT_NOT_FOUND", Message: "Student not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// POST /v1/attendance - Take Attendance
		endpoint.New(
			endpoint.POST,
			"/attendance",
			endpoint.WithTags("Attendance"),
			endpoint.WithSummary("Take attendance from a classroom photo"),
			endpoint.WithDescription("Detects every face in the photo and matches each one against the section's enrolled students. A photo with no faces yields a valid empty record."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(AttendanceData{}, "200", "Attendance taken successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "section and image are required"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "EMPTY_GALLERY", Message: "No enrolled students to compare against"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "RATE_LIMITED", Message: "Too many recognition requests for this section"}, "429", "Too Many Requests"),
				response.New(ErrorResponse{Code: "DEGENERATE_VECTOR", Message: "Embedding has zero or non-finite norm"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "DIMENSION_MISMATCH", Message: "Query and gallery embeddings differ in dimension"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// GET /v1/attendance - Attendance History
		endpoint.New(
			endpoint.GET,
			"/attendance",
			endpoint.WithTags("Attendance"),
			endpoint.WithSummary("List recent attendance records"),
			endpoint.WithDescription("Lists the most recent attendance records for a section, newest first"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("section", parameter.Query, parameter.WithDescription("Section identifier")),
				parameter.IntParam("limit", parameter.Query, parameter.WithDescription("Maximum number of records (default: 50)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(AttendanceHistoryData{}, "200", "Records listed successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "section is required"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// GET /v1/attendance/stats - Section Statistics
		endpoint.New(
			endpoint.GET,
			"/attendance/stats",
			endpoint.WithTags("Attendance"),
			endpoint.WithSummary("Get section recognition statistics"),
			endpoint.WithDescription("Returns aggregate statistics over the section's attendance records: totals, averages and overall recognition rate"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("section", parameter.Query, parameter.WithDescription("Section identifier")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SectionStatsData{}, "200", "Statistics retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "section is required"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// GET /v1/live/token - Live Feed Token
		endpoint.New(
			endpoint.GET,
			"/live/token",
			endpoint.WithTags("Live"),
			endpoint.WithSummary("Issue a live feed token"),
			endpoint.WithDescription("Issues a short-lived token scoped to one section. Pass it as the token query parameter when opening the /live websocket."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("section", parameter.Query, parameter.WithDescription("Section identifier")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(LiveTokenData{}, "200", "Token issued successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "section is required"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// GET /health - Health Check
		endpoint.New(
			endpoint.GET,
			"/health",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Health check"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthData{}, "200", "Service is healthy"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
