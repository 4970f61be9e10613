package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"columbarium-backend/internal/auth"
	"columbarium-backend/internal/database"
	"columbarium-backend/internal/models"
)

// listUsers handles GET /api/users/list-all
func listUsers(c echo.Context) error {
	users, err := userRepo.List()
	if err != nil {
		c.Logger().Error(err)
		return errorJSON(c, http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, users)
}

// createUser handles POST /api/users/create-new
func createUser(c echo.Context) error {
	var req models.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return errorJSON(c, http.StatusBadRequest, "username and password are required")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.Logger().Error(err)
		return errorJSON(c, http.StatusInternalServerError, "internal server error")
	}

	user := &models.User{
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		PasswordHash: hash,
		RoleID:       req.RoleID,
	}
	if err := userRepo.Create(user); err != nil {
		if errors.Is(err, database.ErrUserAlreadyExists) {
			return errorJSON(c, http.StatusBadRequest, "username already taken")
		}
		c.Logger().Error(err)
		return errorJSON(c, http.StatusInternalServerError, "internal server error")
	}

	created, err := userRepo.GetByID(user.ID)
	if err != nil {
		c.Logger().Error(err)
		return errorJSON(c, http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusCreated, created)
}

// editUser handles PUT /api/users/edit?user_id=
func editUser(c echo.Context) error {
	id, err := queryID(c, "user_id")
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid user_id")
	}

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}

	user, err := userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return errorJSON(c, http.StatusNotFound, "user not found")
		}
		c.Logger().Error(err)
		return errorJSON(c, http.StatusInternalServerError, "internal server error")
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.RoleID != nil {
		user.RoleID = req.RoleID
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			c.Logger().Error(err)
			return errorJSON(c, http.StatusInternalServerError, "internal server error")
		}
		user.PasswordHash = hash
	}

	if err := userRepo.Update(user); err != nil {
		c.Logger().Error(err)
		return errorJSON(c, http.StatusInternalServerError, "internal server error")
	}

	updated, err := userRepo.GetByID(id)
	if err != nil {
		c.Logger().Error(err)
		return errorJSON(c, http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, updated)
}

// deleteUsers handles DELETE /api/users/delete
func deleteUsers(c echo.Context) error {
	var req deleteRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if len(req.ElementIDs) == 0 {
		return errorJSON(c, http.StatusBadRequest, "element_ids is required")
	}

	// A user may not delete their own account
	actor := auth.GetUserFromContext(c)
	for _, id := range req.ElementIDs {
		if actor != nil && actor.ID == id {
			return errorJSON(c, http.StatusBadRequest, "cannot delete your own account")
		}
	}

	for _, id := range req.ElementIDs {
		if err := userRepo.Delete(id); err != nil {
			if errors.Is(err, database.ErrUserNotFound) {
				return errorJSON(c, http.StatusNotFound, "user not found")
			}
			c.Logger().Error(err)
			return errorJSON(c, http.StatusInternalServerError, "internal server error")
		}
	}
	return c.JSON(http.StatusOK, map[string]any{"ids": req.ElementIDs})
}

// listRoles handles GET /api/users/roles
func listRoles(c echo.Context) error {
	roles, err := roleRepo.List()
	if err != nil {
		c.Logger().Error(err)
		return errorJSON(c, http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, roles)
}
