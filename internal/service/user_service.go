package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Mohanapriya2828/schoolapp-ado/config"
	"github.com/Mohanapriya2828/schoolapp-ado/internal/domain"
	"github.com/Mohanapriya2828/schoolapp-ado/internal/dto"
	"github.com/Mohanapriya2828/schoolapp-ado/internal/repository"
	"github.com/Mohanapriya2828/schoolapp-ado/pkg/credentials"
	pkgdto "github.com/Mohanapriya2828/schoolapp-ado/pkg/dto"
	"github.com/Mohanapriya2828/schoolapp-ado/pkg/errs"
	"github.com/Mohanapriya2828/schoolapp-ado/pkg/utils"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"gopkg.in/gomail.v2"
)

type UserService interface {
	AddUser(ctx context.Context, data dto.RegisterRequest) (resp dto.UserResponse, err error)
	Login(ctx context.Context, payload dto.LoginRequest) (respPayload dto.LoginResponse, err error)
	GetUserByID(ctx context.Context, id int64) (resp dto.UserResponse, err error)
	GetUsers(ctx context.Context, filter pkgdto.Filter) (resp pkgdto.PaginationResponse, err error)
	UpdateUser(ctx context.Context, payload dto.UpdateUserRequest) (err error)
	DeleteUser(ctx context.Context, id int64) (err error)
}

type ServiceImpl struct {
	repo          repository.UserRepository
	config        config.Config
	kafkaProducer *kafka.Conn
}

func CreateNewService(repo repository.UserRepository, config config.Config, kafkaProducer *kafka.Conn) UserService {
	return &ServiceImpl{repo: repo, config: config, kafkaProducer: kafkaProducer}
}

func (s *ServiceImpl) AddUser(ctx context.Context, data dto.RegisterRequest) (resp dto.UserResponse, err error) {
	user, err := s.repo.GetUserByEmail(ctx, data.Email)
	if err != nil {
		return
	}

	if user.ID != 0 {
		return resp, errs.ErrEmailAlreadyUsed
	}

	hash, err := credentials.Hash(data.Password)
	if err != nil {
		log.Error().Err(err).Str("component", "AddUser").Msg("")
		return resp, errs.ErrInternalServer
	}

	userEnt := domain.User{
		ExternalID:      ulid.Make().String(),
		Name:            data.Name,
		Dob:             data.Dob,
		Age:             data.Age,
		Gender:          data.Gender,
		Designation:     data.Designation,
		Department:      data.Department,
		Email:           data.Email,
		PhoneNumber:     data.PhoneNumber,
		Address:         data.Address,
		HashedPassword:  hash,
		Role:            data.Role,
		ProfileImageURL: data.ProfileImageURL,
		IsActive:        true,
	}

	// The unique index on email is the authority here; the lookup above only
	// gives a friendlier answer for the common case.
	id, err := s.repo.AddUser(ctx, userEnt)
	if err != nil {
		return resp, err
	}

	created, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return resp, err
	}

	if err := s.publishEvent("user_registered", dto.UserResponse{
		ID:         created.ID,
		ExternalID: created.ExternalID,
		Name:       created.Name,
		Email:      created.Email,
		Role:       created.Role,
	}); err != nil {
		return resp, err
	}

	go s.sendWelcomeEmail(created.Email, created.Name)

	return toUserResponse(created), nil
}

// Login fails with the same error whether the email is unknown, the account
// is inactive, or the password does not match.
func (s *ServiceImpl) Login(ctx context.Context, payload dto.LoginRequest) (respPayload dto.LoginResponse, err error) {
	user, err := s.repo.GetUserByEmail(ctx, payload.Email)
	if err != nil {
		return
	}

	if user.ID == 0 || !user.IsActive {
		return respPayload, errs.ErrInvalidCredentialsEmail
	}

	if !credentials.Verify(payload.Password, user.HashedPassword) {
		return respPayload, errs.ErrInvalidCredentialsEmail
	}

	token, err := utils.CreateJWTToken(user.ID, user.Name, user.Email, user.Role,
		s.config.JWTConfig.Secret, s.config.JWTConfig.Issuer, s.config.JWTConfig.Audience,
		s.config.JWTConfig.ExpiryMinutes, s.config.JWTConfig.Kid)
	if err != nil {
		log.Error().Err(err).Str("component", "Login").Msg("")
		return respPayload, errs.ErrInternalServer
	}

	respPayload.Token = token
	respPayload.UserID = user.ID
	respPayload.Role = user.Role
	respPayload.Name = user.Name

	return
}

func (s *ServiceImpl) GetUserByID(ctx context.Context, id int64) (resp dto.UserResponse, err error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return
	}

	if !user.IsActive && !s.config.ShowInactiveUsers {
		return resp, errs.ErrNotFound
	}

	return toUserResponse(user), nil
}

func (s *ServiceImpl) GetUsers(ctx context.Context, filter pkgdto.Filter) (resp pkgdto.PaginationResponse, err error) {
	users, err := s.repo.GetUsers(ctx, filter)
	if err != nil {
		return
	}

	count, err := s.repo.CountUsers(ctx, filter)
	if err != nil {
		return
	}

	records := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		records = append(records, toUserResponse(user))
	}

	resp.Records = records
	resp.Metadata = pkgdto.PaginationMetadata{
		TotalCount: count,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}

	return
}

func (s *ServiceImpl) UpdateUser(ctx context.Context, payload dto.UpdateUserRequest) error {
	userData, err := s.repo.GetUserByID(ctx, payload.ID)
	if err != nil {
		return err
	}

	if !userData.IsActive {
		return errs.ErrNotFound
	}

	if payload.Email != nil && *payload.Email != userData.Email {
		holder, err := s.repo.GetUserByEmail(ctx, *payload.Email)
		if err != nil {
			return err
		}
		if holder.ID != 0 && holder.ID != userData.ID {
			return errs.ErrEmailAlreadyUsed
		}
	}

	updated := mergeUpdate(userData, payload)

	if payload.Password != "" {
		hash, err := credentials.Hash(payload.Password)
		if err != nil {
			log.Error().Err(err).Str("component", "UpdateUser").Msg("")
			return errs.ErrInternalServer
		}
		updated.HashedPassword = hash
	}

	if err := s.repo.UpdateUserIfUnchanged(ctx, updated, userData.Version); err != nil {
		return err
	}

	return s.publishEvent("user_updated", dto.UserResponse{
		ID:         updated.ID,
		ExternalID: updated.ExternalID,
		Name:       updated.Name,
		Email:      updated.Email,
		Role:       updated.Role,
	})
}

func (s *ServiceImpl) DeleteUser(ctx context.Context, id int64) error {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return err
	}

	if !user.IsActive {
		return errs.ErrNotFound
	}

	if err := s.repo.SoftDeleteUser(ctx, id); err != nil {
		return err
	}

	return s.publishEvent("user_deleted", dto.UserResponse{
		ID:         user.ID,
		ExternalID: user.ExternalID,
		Email:      user.Email,
	})
}

// mergeUpdate applies the supplied fields on top of the stored record; nil
// fields keep their current values.
func mergeUpdate(current domain.User, payload dto.UpdateUserRequest) domain.User {
	updated := current

	if payload.Name != nil {
		updated.Name = *payload.Name
	}
	if payload.Dob != nil {
		updated.Dob = *payload.Dob
	}
	if payload.Age != nil {
		updated.Age = payload.Age
	}
	if payload.Gender != nil {
		updated.Gender = payload.Gender
	}
	if payload.Designation != nil {
		updated.Designation = *payload.Designation
	}
	if payload.Department != nil {
		updated.Department = *payload.Department
	}
	if payload.Email != nil {
		updated.Email = *payload.Email
	}
	if payload.PhoneNumber != nil {
		updated.PhoneNumber = payload.PhoneNumber
	}
	if payload.Address != nil {
		updated.Address = payload.Address
	}
	if payload.ProfileImageURL != nil {
		updated.ProfileImageURL = payload.ProfileImageURL
	}

	return updated
}

func toUserResponse(user domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:              user.ID,
		ExternalID:      user.ExternalID,
		Name:            user.Name,
		Dob:             user.Dob,
		Age:             user.Age,
		Gender:          user.Gender,
		Designation:     user.Designation,
		Department:      user.Department,
		Email:           user.Email,
		PhoneNumber:     user.PhoneNumber,
		Address:         user.Address,
		Role:            user.Role,
		ProfileImageURL: user.ProfileImageURL,
		IsActive:        user.IsActive,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
		DeletedAt:       user.DeletedAt,
	}
}

func (s *ServiceImpl) publishEvent(eventType string, data interface{}) error {
	if s.kafkaProducer == nil {
		return nil
	}

	kafkaMsg := dto.KafkaMessage{
		EventType: eventType,
		Data:      data,
	}

	jsonMsg, err := json.Marshal(kafkaMsg)
	if err != nil {
		return fmt.Errorf("failed to marshal Kafka message: %w", err)
	}

	var writeErr error
	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		writeErr = s.writeKafkaMessage(jsonMsg)
		if writeErr == nil {
			break
		}
		log.Warn().Err(writeErr).Str("component", "publishEvent").Msgf("Failed to write Kafka message (attempt %d/%d)", i+1, maxRetries)
		time.Sleep(time.Second * time.Duration(i+1)) // Exponential backoff
	}

	if writeErr != nil {
		return fmt.Errorf("failed to write Kafka message after %d attempts: %w", maxRetries, writeErr)
	}

	return nil
}

func (s *ServiceImpl) writeKafkaMessage(msg []byte) error {
	_, err := s.kafkaProducer.WriteMessages(
		kafka.Message{
			Value: msg,
		},
	)
	return err
}

func (s *ServiceImpl) sendWelcomeEmail(email string, name string) {
	if s.config.SMTPConfig.Host == "" {
		return
	}

	message := gomail.NewMessage()
	message.SetHeader("From", s.config.SMTPConfig.Sender)
	message.SetHeader("To", email)
	message.SetHeader("Subject", "Welcome to SchoolApp")
	message.SetBody("text/plain", fmt.Sprintf("Hi %s,\n\nYour account has been created.", name))

	if err := utils.SendEmail(message, s.config.SMTPConfig.Sender, s.config.SMTPConfig.Password,
		s.config.SMTPConfig.Host, s.config.SMTPConfig.Port); err != nil {
		log.Warn().Err(err).Str("component", "sendWelcomeEmail").Msg("")
	}
}
