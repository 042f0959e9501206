package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"goal-planner/planner-service/ai"
	"goal-planner/planner-service/handlers"
	"goal-planner/planner-service/logging"
	"goal-planner/planner-service/middleware"
	"goal-planner/planner-service/services"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	logging.InitLogger()

	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Planner Service...")
	err := godotenv.Load(".env")
	if err != nil {
		logging.Logger.Fatalf("Event ID: ENV_LOAD_ERROR, Description: Error loading .env file: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")
	mongoDBName := os.Getenv("MONGO_DB_NAME")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer client.Disconnect(ctx)

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", mongoURI)

	db := client.Database(mongoDBName)
	goalsCollection := db.Collection("goals")
	tasksCollection := db.Collection("tasks")
	usersCollection := db.Collection("users")

	// Ollama chat capability iza circuit breakera
	ollamaURL := os.Getenv("OLLAMA_URL")
	if ollamaURL == "" {
		ollamaURL = "http://localhost:11434"
	}
	ollamaModel := os.Getenv("OLLAMA_MODEL")
	if ollamaModel == "" {
		ollamaModel = "llama3"
	}
	chatClient := ai.NewClient(ollamaURL, ollamaModel, ai.NewBreaker("OllamaCB"))
	logging.Logger.Infof("Event ID: OLLAMA_CONFIGURED, Description: Using Ollama at %s with model %s.", ollamaURL, ollamaModel)

	goalService := services.NewGoalService(goalsCollection, tasksCollection)
	taskService := services.NewTaskService(tasksCollection, goalsCollection)
	userService := services.NewUserService(usersCollection)
	plannerService := services.NewPlannerService(chatClient, goalService)

	goalHandler := handlers.NewGoalHandler(goalService)
	taskHandler := handlers.NewTaskHandler(taskService)
	userHandler := handlers.NewUserHandler(userService)
	plannerHandler := handlers.NewPlannerHandler(plannerService)

	r := mux.NewRouter()

	// Otvorene rute
	r.HandleFunc("/register", userHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/login", userHandler.Login).Methods(http.MethodPost)

	// Sve /api rute idu kroz JWT middleware
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.JWTAuthMiddleware)

	api.HandleFunc("/goals/create", goalHandler.CreateGoal).Methods(http.MethodPost)
	api.HandleFunc("/goals/all", goalHandler.GetAllGoals).Methods(http.MethodGet)
	api.HandleFunc("/goals/{goalId}", goalHandler.GetGoal).Methods(http.MethodGet)
	api.HandleFunc("/goals/{goalId}", goalHandler.UpdateGoal).Methods(http.MethodPut)
	api.HandleFunc("/goals/{goalId}", goalHandler.DeleteGoal).Methods(http.MethodDelete)
	api.HandleFunc("/goals/{goalId}/progress", goalHandler.GoalProgressHandler).Methods(http.MethodGet)
	api.HandleFunc("/goals/{goalId}/milestones", goalHandler.AddMilestone).Methods(http.MethodPost)
	api.HandleFunc("/goals/{goalId}/milestones/{milestoneId}", goalHandler.RemoveMilestone).Methods(http.MethodDelete)

	api.HandleFunc("/tasks/create", taskHandler.CreateTask).Methods(http.MethodPost)
	api.HandleFunc("/tasks/status", taskHandler.ChangeTaskStatus).Methods(http.MethodPost)
	api.HandleFunc("/tasks/goal/{goalId}", taskHandler.GetTasksByGoal).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{taskID}", taskHandler.GetTask).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{taskID}", taskHandler.UpdateTask).Methods(http.MethodPut)
	api.HandleFunc("/tasks/{taskID}", taskHandler.DeleteTask).Methods(http.MethodDelete)
	api.HandleFunc("/tasks/{taskID}/progress", taskHandler.TaskProgressHandler).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{taskID}/subtasks", taskHandler.AddSubtask).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{taskID}/subtasks/{subtaskID}/toggle", taskHandler.ToggleSubtask).Methods(http.MethodPatch)
	api.HandleFunc("/tasks/{taskID}/subtasks/{subtaskID}", taskHandler.RemoveSubtask).Methods(http.MethodDelete)

	api.HandleFunc("/assistant/suggest", plannerHandler.SuggestHandler).Methods(http.MethodPost)
	api.HandleFunc("/assistant/tweak", plannerHandler.TweakHandler).Methods(http.MethodPost)
	api.HandleFunc("/assistant/finalize", plannerHandler.FinalizeHandler).Methods(http.MethodPost)

	corsRouter := enableCORS(r)

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: SERVER_PORT is not set in the environment variables.")
	}

	serverAddress := fmt.Sprintf(":%s", serverPort)
	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", serverAddress)

	if err := http.ListenAndServe(serverAddress, corsRouter); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
