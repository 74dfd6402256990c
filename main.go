package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Dipxssi/synergysphere/handlers"
	"github.com/Dipxssi/synergysphere/logging"
	"github.com/Dipxssi/synergysphere/middleware"
	"github.com/Dipxssi/synergysphere/repositories"
	"github.com/Dipxssi/synergysphere/services"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// createUserEmailIndex enforces account-email uniqueness at the store level.
func createUserEmailIndex(collection *mongo.Collection) error {
	indexModel := mongo.IndexModel{
		Keys:    bson.M{"email": 1},
		Options: options.Index().SetUnique(true),
	}
	_, err := collection.Indexes().CreateOne(context.TODO(), indexModel)
	if err != nil {
		return fmt.Errorf("failed to create unique index on user email: %v", err)
	}
	return nil
}

func main() {
	logging.InitLogger()
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting SynergySphere backend...")

	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Warnf("Event ID: ENV_LOAD_WARNING, Description: No .env file loaded: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	mongoDBName := os.Getenv("MONGO_DB_NAME")
	if mongoDBName == "" {
		mongoDBName = "synergysphere"
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: JWT_SECRET is not set in the environment variables.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer client.Disconnect(context.TODO())

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", mongoURI)

	db := client.Database(mongoDBName)
	usersCollection := db.Collection("users")
	projectsCollection := db.Collection("projects")
	tasksCollection := db.Collection("tasks")
	notificationsCollection := db.Collection("notifications")

	if err := createUserEmailIndex(usersCollection); err != nil {
		logging.Logger.Fatalf("Event ID: DB_INDEX_FAILED, Description: %v", err)
	}

	userRepo := repositories.NewUserRepo(usersCollection)
	projectRepo := repositories.NewProjectRepo(projectsCollection)
	taskRepo := repositories.NewTaskRepo(tasksCollection)
	notificationRepo := repositories.NewNotificationRepo(notificationsCollection)

	// Notification writes are best-effort; the breaker keeps a failing
	// notifications collection from slowing every mutation down.
	notificationsBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "notifications-cb",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})

	jwtService := services.NewJWTService(jwtSecret, 24*time.Hour)
	notificationService := services.NewNotificationService(notificationRepo, notificationsBreaker)
	userService := services.NewUserService(userRepo, jwtService)
	projectService := services.NewProjectService(projectRepo, taskRepo, userRepo, notificationService)
	taskService := services.NewTaskService(taskRepo, projectRepo, userRepo, projectService, notificationService)

	authHandler := handlers.NewAuthHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	auth := middleware.JWTAuthMiddleware(jwtService)

	r := mux.NewRouter()

	r.HandleFunc("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"message":"SynergySphere backend is running!","timestamp":%q}`, time.Now().UTC().Format(time.RFC3339))
	}).Methods(http.MethodGet)

	r.HandleFunc("/api/auth/register", authHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods(http.MethodPost)
	r.Handle("/api/auth/me", auth(http.HandlerFunc(authHandler.Profile))).Methods(http.MethodGet)
	r.Handle("/api/auth/logout", auth(http.HandlerFunc(authHandler.Logout))).Methods(http.MethodPost)

	r.Handle("/api/projects", auth(http.HandlerFunc(projectHandler.ListProjects))).Methods(http.MethodGet)
	r.Handle("/api/projects", auth(http.HandlerFunc(projectHandler.CreateProject))).Methods(http.MethodPost)
	r.Handle("/api/projects/{id}", auth(http.HandlerFunc(projectHandler.GetProject))).Methods(http.MethodGet)
	r.Handle("/api/projects/{id}", auth(http.HandlerFunc(projectHandler.UpdateProject))).Methods(http.MethodPut)
	r.Handle("/api/projects/{id}", auth(http.HandlerFunc(projectHandler.DeleteProject))).Methods(http.MethodDelete)
	r.Handle("/api/projects/{id}/members", auth(http.HandlerFunc(projectHandler.AddMember))).Methods(http.MethodPost)

	r.Handle("/api/tasks/project/{projectId}", auth(http.HandlerFunc(taskHandler.GetProjectTasks))).Methods(http.MethodGet)
	r.Handle("/api/tasks", auth(http.HandlerFunc(taskHandler.CreateTask))).Methods(http.MethodPost)
	r.Handle("/api/tasks/{id}", auth(http.HandlerFunc(taskHandler.GetTask))).Methods(http.MethodGet)
	r.Handle("/api/tasks/{id}", auth(http.HandlerFunc(taskHandler.UpdateTask))).Methods(http.MethodPut)
	r.Handle("/api/tasks/{id}", auth(http.HandlerFunc(taskHandler.DeleteTask))).Methods(http.MethodDelete)
	r.Handle("/api/tasks/{id}/comments", auth(http.HandlerFunc(taskHandler.AddComment))).Methods(http.MethodPost)

	r.Handle("/api/notifications", auth(http.HandlerFunc(notificationHandler.ListNotifications))).Methods(http.MethodGet)
	r.Handle("/api/notifications/{id}/read", auth(http.HandlerFunc(notificationHandler.MarkRead))).Methods(http.MethodPut)

	corsRouter := enableCORS(r)

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "5000"
	}
	serverAddress := fmt.Sprintf(":%s", serverPort)
	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", serverAddress)

	if err := http.ListenAndServe(serverAddress, corsRouter); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}

// enableCORS allows the frontend origin configured in the environment.
func enableCORS(next http.Handler) http.Handler {
	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", frontendURL)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
