package server

import (
	"yatube/internal/models"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GroupPage is a group header plus one page of its posts.
type GroupPage struct {
	Group *models.Group              `json:"group"`
	Posts *service.Page[models.Post] `json:"posts"`
}

// ListGroups handles GET /api/groups
func (s *Server) ListGroups(c *fiber.Ctx) error {
	groups, err := s.groupService.ListGroups(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(groups)
}

// GetGroup handles GET /api/groups/:slug
func (s *Server) GetGroup(c *fiber.Ctx) error {
	group, err := s.groupService.GetGroup(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(group)
}

// GroupPosts handles GET /api/groups/:slug/posts
// @Summary Posts of one group
// @Tags groups
// @Produce json
// @Param slug path string true "Group slug"
// @Param page query int false "Page number"
// @Success 200 {object} GroupPage
// @Failure 404 {object} models.ErrorResponse
// @Router /groups/{slug}/posts [get]
func (s *Server) GroupPosts(c *fiber.Ctx) error {
	group, posts, err := s.postService.GroupPosts(c.UserContext(), c.Params("slug"), pageParam(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(GroupPage{Group: group, Posts: posts})
}

// CreateGroup handles POST /api/admin/groups
// @Summary Create a group
// @Tags admin
// @Accept json
// @Produce json
// @Param request body service.CreateGroupInput true "Group"
// @Success 201 {object} models.Group
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/groups [post]
func (s *Server) CreateGroup(c *fiber.Ctx) error {
	var req service.CreateGroupInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	group, err := s.groupService.CreateGroup(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(group)
}

// DeleteGroup handles DELETE /api/admin/groups/:slug
func (s *Server) DeleteGroup(c *fiber.Ctx) error {
	if err := s.groupService.DeleteGroup(c.UserContext(), c.Params("slug")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
