package server

import (
	"io"
	"strings"

	"yatube/internal/models"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// PostDetail is a post together with its comments, oldest first.
type PostDetail struct {
	Post     *models.Post     `json:"post"`
	Comments []models.Comment `json:"comments"`
}

// postForm is the body accepted by create and edit.
type postForm struct {
	Text  string `json:"text"`
	Group *uint  `json:"group"`
}

// readPostForm parses a JSON, urlencoded or multipart post body. Only the multipart
// variant may carry an "image" file.
func readPostForm(c *fiber.Ctx, userID uint) (postForm, *service.UploadImageInput, error) {
	var form postForm
	contentType := c.Get(fiber.HeaderContentType)

	if strings.HasPrefix(contentType, fiber.MIMEApplicationJSON) {
		if err := c.BodyParser(&form); err != nil {
			return form, nil, models.NewValidationError("Invalid request body")
		}
		return form, nil, nil
	}

	form.Text = c.FormValue("text")
	group, err := parseGroupID(c.FormValue("group"))
	if err != nil {
		return form, nil, err
	}
	form.Group = group
	if !strings.HasPrefix(contentType, fiber.MIMEMultipartForm) {
		return form, nil, nil
	}

	file, err := c.FormFile("image")
	if err != nil {
		// no file part
		return form, nil, nil
	}
	src, err := file.Open()
	if err != nil {
		return form, nil, models.NewValidationError("Unable to read uploaded file")
	}
	defer func() { _ = src.Close() }()

	content, err := io.ReadAll(src)
	if err != nil {
		return form, nil, models.NewValidationError("Unable to read uploaded file")
	}
	return form, &service.UploadImageInput{
		UserID:      userID,
		Filename:    file.Filename,
		ContentType: file.Header.Get(fiber.HeaderContentType),
		Content:     content,
	}, nil
}

// Index handles GET /api/posts
// @Summary List all posts
// @Description Every post, newest first, 10 per page
// @Tags posts
// @Produce json
// @Param page query int false "Page number"
// @Success 200 {object} service.Page[models.Post]
// @Router /posts [get]
func (s *Server) Index(c *fiber.Ctx) error {
	page, err := s.postService.Index(c.UserContext(), pageParam(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// GetPost handles GET /api/posts/:id
// @Summary Post detail
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} PostDetail
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	ctx := c.UserContext()
	post, err := s.postService.GetPost(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	comments, err := s.commentService.ListComments(ctx, id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(PostDetail{Post: post, Comments: comments})
}

// CreatePost handles POST /api/posts
// @Summary Create a post
// @Description JSON body or multipart form with an optional "image" file
// @Tags posts
// @Accept json,mpfd
// @Produce json
// @Param request body object{text=string,group=int} true "Post"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := currentUserID(c)

	form, image, err := readPostForm(c, userID)
	if err != nil {
		return respondError(c, err)
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		AuthorID: userID,
		Text:     form.Text,
		GroupID:  form.Group,
		Image:    image,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
// @Summary Edit a post
// @Description Only the author may edit; anyone else gets 403
// @Tags posts
// @Accept json,mpfd
// @Produce json
// @Param id path int true "Post ID"
// @Param request body object{text=string,group=int} true "Post"
// @Success 200 {object} models.Post
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	userID := currentUserID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	form, image, err := readPostForm(c, userID)
	if err != nil {
		return respondError(c, err)
	}

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		UserID:  userID,
		PostID:  postID,
		Text:    form.Text,
		GroupID: form.Group,
		Image:   image,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
// @Summary Delete a post and its comments
// @Tags posts
// @Param id path int true "Post ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), service.DeletePostInput{
		UserID: currentUserID(c),
		PostID: postID,
	}); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
