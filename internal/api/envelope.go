package api

import (
	"encoding/json"
	"net/http"
)

// The API speaks three envelope dialects, kept exactly as the clients expect
// them: listing endpoints wrap data in {"status":"success",...} and errors in
// {"status":"error","message":...}; response endpoints use {"success":true,
// ...}; account endpoints answer flat payloads and bare {"message":...}
// errors. The inconsistency is part of the contract.

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData writes {"status":"success","data":...}.
func WriteData(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, map[string]any{
		"status": "success",
		"data":   data,
	})
}

// WriteDataCount writes {"status":"success","results":n,"data":...}.
func WriteDataCount(w http.ResponseWriter, status int, results int, data any) {
	WriteJSON(w, status, map[string]any{
		"status":  "success",
		"results": results,
		"data":    data,
	})
}

// WriteSuccess writes {"success":true,"data":...}.
func WriteSuccess(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, map[string]any{
		"success": true,
		"data":    data,
	})
}

// WriteSuccessMessage writes {"success":true,"message":...}.
func WriteSuccessMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]any{
		"success": true,
		"message": message,
	})
}

// WriteStatusMessage writes {"status":"success","message":...}.
func WriteStatusMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]any{
		"status":  "success",
		"message": message,
	})
}

// WriteMessage writes the bare {"message":...} shape.
func WriteMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]any{
		"message": message,
	})
}

// WriteStatusError writes {"status":"error","message":...}.
func WriteStatusError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]any{
		"status":  "error",
		"message": message,
	})
}
