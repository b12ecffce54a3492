package main

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/QuickWebMaster/mediva-bot/internal/database"
	"github.com/QuickWebMaster/mediva-bot/internal/logger"
	"github.com/QuickWebMaster/mediva-bot/internal/services"
)

// Админ-панель: просмотр заявок на прием, сохраненных ботом в MongoDB.

type AdminServer struct {
	dbService *services.DatabaseService
}

func getMongoURI() string {
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		return uri
	}
	return "mongodb://localhost:27017"
}

func main() {
	log := logger.New()
	defer log.Sync()

	if err := godotenv.Load(); err != nil {
		log.Info("Файл .env не найден, используем системные переменные")
	}

	client, err := database.Connect(getMongoURI())
	if err != nil {
		log.Fatalf("Ошибка подключения к MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	server := &AdminServer{
		dbService: services.NewDatabaseService(client),
	}

	http.HandleFunc("/", server.handleIndex)
	http.HandleFunc("/api/appointments", server.handleAppointments)

	port := ":8080"
	log.Infof("Админ-панель запущена на http://localhost%s", port)
	log.Fatal(http.ListenAndServe(port, nil))
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Mediva — заявки на прием</title>
    <meta charset="utf-8">
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        .container { max-width: 900px; margin: 0 auto; }
        table { width: 100%; border-collapse: collapse; margin-top: 10px; }
        th, td { padding: 8px; border: 1px solid #ddd; text-align: left; }
        th { background: #f5f5f5; }
        .status-failed { color: #c62828; }
    </style>
</head>
<body>
<div class="container">
    <h1>Заявки на прием</h1>
    <table>
        <tr><th>ФИО</th><th>Дата рождения</th><th>Время визита</th><th>Статус</th><th>Создана</th></tr>
        {{range .}}
        <tr>
            <td>{{.FullName}}</td>
            <td>{{.DateOfBirth.Format "02.01.2006"}}</td>
            <td>{{.PreferredTime.Format "02.01.2006 15:04"}}</td>
            <td {{if eq .Status "failed"}}class="status-failed"{{end}}>{{.Status}}</td>
            <td>{{.CreatedAt.Format "02.01.2006 15:04"}}</td>
        </tr>
        {{end}}
    </table>
</div>
</body>
</html>`))

func (s *AdminServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	appointments, err := s.dbService.ListAppointments(r.Context())
	if err != nil {
		http.Error(w, "ошибка чтения заявок", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	indexTemplate.Execute(w, appointments)
}

func (s *AdminServer) handleAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := s.dbService.ListAppointments(r.Context())
	if err != nil {
		http.Error(w, "ошибка чтения заявок", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	json.NewEncoder(w).Encode(appointments)
}
