package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bdbus-backend/database"
	"bdbus-backend/errors"
	"bdbus-backend/model"
)

// CreateUser saves a user profile unless the email is already registered.
func (h *Handler) CreateUser(c *fiber.Ctx) error {
	newUser := new(model.UserData)
	if err := c.BodyParser(newUser); err != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("incorrect user parameters: %v", err))
	}
	if newUser.Email == "" {
		return errors.RaiseBadRequestError(c, "email is required")
	}

	inserted, dbErr := h.Store.Users.InsertIfAbsent(c.Context(), *newUser)
	if dbErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("db error while inserting user: %v", dbErr))
	}
	if !inserted {
		return c.JSON(fiber.Map{"status": "success", "message": "user already exist", "data": newUser.Email})
	}
	return c.JSON(fiber.Map{"status": "success", "message": "user created", "data": newUser.Email})
}

// GetUser returns one user profile, used for role checks on the frontend.
func (h *Handler) GetUser(c *fiber.Ctx) error {
	user, dbErr := h.Store.Users.GetByEmail(c.Context(), c.Params("email"))
	if dbErr == database.ErrNotFound {
		return errors.RaiseNotFoundError(c, fmt.Sprintf("no user with email %v", c.Params("email")))
	}
	if dbErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("database error: %v", dbErr))
	}
	return c.JSON(user)
}

// GetUsers lists every user. The caller must be a registered user itself.
func (h *Handler) GetUsers(c *fiber.Ctx) error {
	_, dbErr := h.Store.Users.GetByEmail(c.Context(), c.Params("email"))
	if dbErr == database.ErrNotFound {
		return errors.RaisePermissionsError(c, fmt.Sprintf("no user with email %v", c.Params("email")))
	}
	if dbErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("database error: %v", dbErr))
	}

	users, dbErr := h.Store.Users.All(c.Context())
	if dbErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("database error: %v", dbErr))
	}
	return c.JSON(users)
}

// UpdateProfile updates the mutable profile fields of one user.
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	type profileRequest struct {
		NewData model.UserData `json:"newData"`
	}

	req := new(profileRequest)
	if err := c.BodyParser(req); err != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("incorrect profile parameters: %v", err))
	}

	updateErr := h.Store.Users.UpdateProfile(c.Context(), c.Params("email"), req.NewData)
	if updateErr == database.ErrNotFound {
		return errors.RaiseNotFoundError(c, fmt.Sprintf("no user with email %v", c.Params("email")))
	}
	if updateErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("db error while updating user: %v", updateErr))
	}
	return c.JSON(fiber.Map{"status": "success", "message": "profile updated", "data": c.Params("email")})
}

// MakeUserAdmin promotes one user to the admin role.
func (h *Handler) MakeUserAdmin(c *fiber.Ctx) error {
	userId, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("invalid user id: %v", err))
	}

	updateErr := h.Store.Users.MakeAdmin(c.Context(), userId)
	if updateErr == database.ErrNotFound {
		return errors.RaiseNotFoundError(c, fmt.Sprintf("no user with id %v", userId.Hex()))
	}
	if updateErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("db error while updating user: %v", updateErr))
	}
	return c.JSON(fiber.Map{"status": "success", "message": "user promoted to admin", "data": userId.Hex()})
}

// GrantOperator assigns an operator scope to a user and promotes them to
// admin. Only the super admin route reaches this handler.
func (h *Handler) GrantOperator(c *fiber.Ctx) error {
	type grantRequest struct {
		OperatorName  string         `json:"operatorName"`
		MakeAdminUser model.UserData `json:"makeAdminUser"`
	}

	req := new(grantRequest)
	if err := c.BodyParser(req); err != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("incorrect grant parameters: %v", err))
	}
	if req.OperatorName == "" || req.MakeAdminUser.Email == "" {
		return errors.RaiseBadRequestError(c, "operatorName and makeAdminUser.email are required")
	}

	grantErr := h.Store.Users.GrantOperator(c.Context(), req.MakeAdminUser.Email, req.OperatorName)
	if grantErr == database.ErrNotFound {
		return errors.RaiseNotFoundError(c, fmt.Sprintf("no user with email %v", req.MakeAdminUser.Email))
	}
	if grantErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("db error while updating user: %v", grantErr))
	}
	return c.JSON(fiber.Map{"status": "success", "message": "operator granted", "data": req.OperatorName})
}
