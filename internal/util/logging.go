package util

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"buku-saku-server/internal/apperror"
)

func LogError(message string, err error) error {
	log.Printf("%s: %v", message, err)
	return fmt.Errorf("%s: %w", message, err)
}

// HandleError : tulis respons error JSON {error: pesan}
func HandleError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := struct {
		Error string `json:"error"`
	}{
		Error: message,
	}

	json.NewEncoder(w).Encode(errorResponse)
}

// HandleAppError : petakan error bertipe apperror ke status + pesan yang aman.
func HandleAppError(w http.ResponseWriter, err error) {
	log.Println(err)
	HandleError(w, apperror.UserMessage(err), apperror.HTTPStatus(err))
}

func RespondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Printf("gagal encode respons JSON: %v", err)
		}
	}
}
