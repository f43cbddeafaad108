package handlers

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt"
	jwtv4 "github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"bdbus-backend/config"
	"bdbus-backend/database"
	"bdbus-backend/errors"
)

func isPasswordHashCorrect(dbHash, pass string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(dbHash), []byte(pass))
	return err == nil
}

// Login checks a dashboard user's password and issues an 8h session token
// carrying the role and operator scope.
func (h *Handler) Login(c *fiber.Ctx) error {
	type credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	creds := new(credentials)
	if err := c.BodyParser(creds); err != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("incorrect credentials input: %v", err))
	}

	user, getErr := h.Store.Users.GetByEmail(c.Context(), creds.Email)
	if getErr == database.ErrNotFound {
		return errors.RaisePermissionsError(c, "invalid email or password")
	}
	if getErr != nil {
		return errors.RaiseInternalServerError(c, fmt.Sprintf("database error: %v", getErr))
	}

	if !isPasswordHashCorrect(user.HashedPassword, creds.Password) {
		return errors.RaisePermissionsError(c, "invalid email or password")
	}

	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["email"] = user.Email
	claims["exp"] = time.Now().Add(time.Hour * 8).Unix()
	claims["role"] = user.Role
	claims["operator_name"] = user.OperatorName

	sign, envErr := config.GetSecret("SIGN")
	if envErr != nil {
		log.Print(envErr)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	t, err := token.SignedString([]byte(sign))
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.JSON(fiber.Map{"status": "success", "message": "Success login", "data": t})
}

// Token issues a short-lived session token for an authenticated frontend
// user, without a password check. The trust boundary is the frontend's own
// identity provider; the token only scopes later store lookups.
func (h *Handler) Token(c *fiber.Ctx) error {
	type tokenRequest struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}

	req := new(tokenRequest)
	if err := c.BodyParser(req); err != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("incorrect token input: %v", err))
	}
	if req.Email == "" {
		return errors.RaiseBadRequestError(c, "email is required")
	}

	token := jwtv4.New(jwtv4.SigningMethodHS256)

	claims := token.Claims.(jwtv4.MapClaims)
	claims["email"] = req.Email
	claims["role"] = req.Role
	claims["exp"] = time.Now().Add(time.Hour).Unix()

	sign, envErr := config.GetSecret("SIGN")
	if envErr != nil {
		log.Print(envErr)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	t, err := token.SignedString([]byte(sign))
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.JSON(fiber.Map{"token": t})
}
