package services

import (
	"context"
	"fmt"

	"goal-planner/planner-service/logging"
	"goal-planner/planner-service/models"
	"goal-planner/planner-service/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserService struct {
	usersCollection *mongo.Collection
}

func NewUserService(usersCollection *mongo.Collection) *UserService {
	return &UserService{usersCollection: usersCollection}
}

// Register kreira novog korisnika sa heširanom lozinkom.
// Username mora biti slobodan.
func (s *UserService) Register(username, password, email string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required")
	}

	count, err := s.usersCollection.CountDocuments(context.Background(), bson.M{"username": username})
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %v", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("username already taken")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	user := &models.User{
		ID:       primitive.NewObjectID(),
		Username: username,
		Password: hash,
		Email:    email,
	}

	if _, err := s.usersCollection.InsertOne(context.Background(), user); err != nil {
		return nil, fmt.Errorf("failed to create user: %v", err)
	}

	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: User %s registered successfully.", username)
	return user, nil
}

// Login proverava kredencijale i izdaje JWT token.
func (s *UserService) Login(username, password string) (string, error) {
	var user models.User
	err := s.usersCollection.FindOne(context.Background(), bson.M{"username": username}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return "", fmt.Errorf("invalid credentials")
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up user: %v", err)
	}

	if !utils.CheckPassword(user.Password, password) {
		logging.Logger.Warnf("Event ID: LOGIN_FAILED, Description: Invalid password for user %s.", username)
		return "", fmt.Errorf("invalid credentials")
	}

	token, err := utils.GenerateToken(user.Username)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %v", err)
	}

	logging.Logger.Infof("Event ID: LOGIN_SUCCESS, Description: User %s logged in.", username)
	return token, nil
}
