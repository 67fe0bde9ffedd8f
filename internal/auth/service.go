// Package auth authenticates CMS users: credential checks against the user
// collection, short-lived signed access tokens and revocable refresh tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/radiorasclat/api/internal/tokenstore"
)

// Login failure modes. The API layer maps each to its own response message.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrWrongPassword       = errors.New("wrong password")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// User is a stored CMS account. Passwords are bcrypt hashes.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	FirstName string             `bson:"firstName"`
	LastName  string             `bson:"lastName"`
	Username  string             `bson:"username"`
	Password  string             `bson:"password"`
}

// Session is the result of a successful login or token refresh.
type Session struct {
	Token        string
	RefreshToken string
	Username     string
}

// Service implements the authentication operations.
type Service struct {
	users  *mongo.Collection
	tokens tokenstore.Store
	signer *Signer
}

// NewService wires the user collection, refresh token store and signer.
func NewService(db *mongo.Database, tokens tokenstore.Store, signer *Signer) *Service {
	var users *mongo.Collection
	if db != nil {
		users = db.Collection("users")
	}
	return &Service{users: users, tokens: tokens, signer: signer}
}

// EnsureIndexes creates the unique username and email indexes.
func (s *Service) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := s.users.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("creating user indexes: %w", err)
	}
	return nil
}

// Login checks the credentials and opens a session. Usernames are matched
// case-insensitively by lowercasing on both write and read.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	username = strings.ToLower(username)

	var user User
	err := s.users.FindOne(ctx, bson.D{{Key: "username", Value: username}}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrWrongPassword
	}

	token, err := s.signer.Sign(username)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.Issue(ctx, username)
	if err != nil {
		return nil, err
	}

	return &Session{Token: token, RefreshToken: refresh, Username: username}, nil
}

// Logout revokes the refresh token. Unknown tokens are ignored so logout
// always succeeds.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	return s.tokens.Revoke(ctx, refreshToken)
}

// Refresh exchanges a valid refresh token for a fresh access token. The
// refresh token itself stays valid.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	username, err := s.tokens.Lookup(ctx, refreshToken)
	if errors.Is(err, tokenstore.ErrNotFound) {
		return nil, ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, err
	}

	token, err := s.signer.Sign(username)
	if err != nil {
		return nil, err
	}

	return &Session{Token: token, RefreshToken: refreshToken, Username: username}, nil
}

// CreateUser hashes the password and inserts the account. Used by the
// create-user command; the HTTP register route is intentionally inert.
func (s *Service) CreateUser(ctx context.Context, user User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	user.ID = primitive.NewObjectID()
	user.Email = strings.ToLower(user.Email)
	user.Username = strings.ToLower(user.Username)
	user.Password = string(hash)

	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("user %s already exists", user.Username)
		}
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}
