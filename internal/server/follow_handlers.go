package server

import (
	"github.com/gofiber/fiber/v2"
)

// Follow handles POST /api/follows/:followedId
// @Summary Follow a user
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param followedId path int true "User to follow"
// @Success 200 {object} models.Follow
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /follows/{followedId} [post]
func (s *Server) Follow(c *fiber.Ctx) error {
	followedID, err := s.parseID(c, "followedId")
	if err != nil {
		return nil
	}

	follow, err := s.followService.Follow(c.UserContext(), currentUserID(c), followedID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(follow)
}

// Unfollow handles DELETE /api/follows/:followedId
// @Summary Unfollow a user
// @Tags follows
// @Security BearerAuth
// @Param followedId path int true "User to unfollow"
// @Success 200
// @Failure 400 {object} models.ErrorResponse
// @Router /follows/{followedId} [delete]
func (s *Server) Unfollow(c *fiber.Ctx) error {
	followedID, err := s.parseID(c, "followedId")
	if err != nil {
		return nil
	}

	if err := s.followService.Unfollow(c.UserContext(), currentUserID(c), followedID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

// IsFollowing handles GET /api/follows/is-following?followerId=&followedId=
// @Summary Check a follow edge
// @Tags follows
// @Produce json
// @Param followerId query int true "Follower"
// @Param followedId query int true "Followed"
// @Success 200 {object} models.FollowStatus
// @Failure 400 {object} models.ErrorResponse
// @Router /follows/is-following [get]
func (s *Server) IsFollowing(c *fiber.Ctx) error {
	followerID, err := s.parseQueryID(c, "followerId")
	if err != nil {
		return nil
	}
	followedID, err := s.parseQueryID(c, "followedId")
	if err != nil {
		return nil
	}

	status, err := s.followService.IsFollowing(c.UserContext(), followerID, followedID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(status)
}

// GetFollowStats handles GET /api/follows/stats/:userId
// @Summary Follower and following counts
// @Tags follows
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} models.FollowStats
// @Router /follows/stats/{userId} [get]
func (s *Server) GetFollowStats(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	stats, err := s.followService.Stats(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(stats)
}

// GetFollowers handles GET /api/follows/followers/:userId
// @Summary Users following a user
// @Tags follows
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {array} models.UserSummary
// @Router /follows/followers/{userId} [get]
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	users, err := s.followService.Followers(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}

// GetFollowing handles GET /api/follows/following/:userId
// @Summary Users a user follows
// @Tags follows
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {array} models.UserSummary
// @Router /follows/following/{userId} [get]
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	users, err := s.followService.Following(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}
