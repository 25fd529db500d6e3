package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sensai-ai/hubkit/internal/api/types"
)

// GetOrganization returns an organization by id.
func (c *Client) GetOrganization(ctx context.Context, orgID int64) (*types.Organization, error) {
	var org types.Organization
	if err := c.do(ctx, call{
		method: http.MethodGet,
		path:   pathf("/organizations/%s", orgID),
		out:    &org,
	}); err != nil {
		return nil, err
	}

	return &org, nil
}

// ListMembers returns the members of an organization.
func (c *Client) ListMembers(ctx context.Context, orgID int64) ([]types.Member, error) {
	var members []types.Member
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   pathf("/organizations/%s/members", orgID),
		out:    &members,
	})
	return members, err
}

// ListCohorts returns the cohorts of an organization.
func (c *Client) ListCohorts(ctx context.Context, orgID int64) ([]types.Cohort, error) {
	var cohorts []types.Cohort
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/cohorts/",
		query:  url.Values{"org_id": {strconv.FormatInt(orgID, 10)}},
		out:    &cohorts,
	})
	return cohorts, err
}

// ListCourses returns the courses of an organization.
func (c *Client) ListCourses(ctx context.Context, orgID int64) ([]types.Course, error) {
	var courses []types.Course
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/courses/",
		query:  url.Values{"org_id": {strconv.FormatInt(orgID, 10)}},
		out:    &courses,
	})
	return courses, err
}

// InviteMembers adds members to an organization by e-mail.
func (c *Client) InviteMembers(ctx context.Context, orgID int64, emails []string) error {
	if len(emails) == 0 {
		return fmt.Errorf("%w: no e-mails to invite", ErrInvalidArgument)
	}

	return c.do(ctx, call{
		method: http.MethodPost,
		path:   pathf("/organizations/%s/members", orgID),
		body:   types.InviteRequest{Emails: emails},
	})
}

// RemoveMembers removes members from an organization.
func (c *Client) RemoveMembers(ctx context.Context, orgID int64, userIDs []int64) error {
	if len(userIDs) == 0 {
		return fmt.Errorf("%w: no members to remove", ErrInvalidArgument)
	}

	return c.do(ctx, call{
		method: http.MethodDelete,
		path:   pathf("/organizations/%s/members", orgID),
		body:   types.RemoveMembersRequest{UserIDs: userIDs},
	})
}
