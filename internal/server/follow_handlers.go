package server

import (
	"github.com/gofiber/fiber/v2"
)

// Profile handles GET /api/profiles/:username
// @Summary Author profile
// @Description The author, a page of their posts and whether the caller follows them
// @Tags profiles
// @Produce json
// @Param username path string true "Username"
// @Param page query int false "Page number"
// @Success 200 {object} service.Profile
// @Failure 404 {object} models.ErrorResponse
// @Router /profiles/{username} [get]
func (s *Server) Profile(c *fiber.Ctx) error {
	viewerID, _ := s.optionalUserID(c)

	profile, err := s.profileService.GetProfile(c.UserContext(), c.Params("username"), viewerID, pageParam(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// Follow handles POST /api/profiles/:username/follow
// @Summary Follow an author
// @Description Following twice keeps a single subscription; following yourself is rejected
// @Tags profiles
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} object{following=bool,created=bool}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /profiles/{username}/follow [post]
func (s *Server) Follow(c *fiber.Ctx) error {
	created, err := s.followService.Follow(c.UserContext(), currentUserID(c), c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"following": true,
		"created":   created,
	})
}

// Unfollow handles DELETE /api/profiles/:username/follow
func (s *Server) Unfollow(c *fiber.Ctx) error {
	if err := s.followService.Unfollow(c.UserContext(), currentUserID(c), c.Params("username")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"following": false})
}

// FollowFeed handles GET /api/follow
// @Summary Posts by followed authors
// @Tags profiles
// @Produce json
// @Param page query int false "Page number"
// @Success 200 {object} service.Page[models.Post]
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /follow [get]
func (s *Server) FollowFeed(c *fiber.Ctx) error {
	page, err := s.followService.Feed(c.UserContext(), currentUserID(c), pageParam(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}
