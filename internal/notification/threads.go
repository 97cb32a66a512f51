package notification

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	apperrors "acc-notifications/internal/common/errors"
	"acc-notifications/internal/models"
)

// tagPattern matches @username when the @ starts the text or follows a non-word character.
var tagPattern = regexp.MustCompile(`(?:^|[^A-Za-z0-9_@])@([A-Za-z0-9_-]+)`)

// parseTags returns the distinct lower-cased usernames tagged in content.
func parseTags(content string) []string {
	matches := tagPattern.FindAllStringSubmatch(content, -1)
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		name := strings.ToLower(m[1])
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

func (e *Engine) classifyPrivateThread(ctx context.Context, in classifyInput) (*Event, error) {
	var readers []int64
	_, thread, err := e.nodeWithParent(ctx, in.ReferenceID, func(ctx context.Context, post *models.Node) (err error) {
		readers, err = e.store.NodeReaders(ctx, post.ParentID)
		return err
	})
	if err != nil {
		return nil, err
	}

	ev := newEvent(in, thread.ID)
	ev.Description = fmt.Sprintf("%s has sent a new message in '%s'", in.Actor.Username, thread.Title)
	ev.MergeDescription = fmt.Sprintf("There are multiple new messages in '%s'", thread.Title)
	ev.Recipients = NewRecipientSet(readers...)
	return ev, nil
}

func (e *Engine) classifyFollowedThread(ctx context.Context, in classifyInput) (*Event, error) {
	var followers []int64
	_, thread, err := e.nodeWithParent(ctx, in.ReferenceID, func(ctx context.Context, post *models.Node) (err error) {
		followers, err = e.store.NodeFollowers(ctx, post.ParentID)
		return err
	})
	if err != nil {
		return nil, err
	}

	ev := newEvent(in, thread.ID)
	ev.Description = fmt.Sprintf("%s has posted on thread '%s'", in.Actor.Username, thread.Title)
	ev.MergeDescription = fmt.Sprintf("There are multiple new posts on thread '%s'", thread.Title)
	ev.Recipients = NewRecipientSet(followers...)
	return ev, nil
}

func (e *Engine) classifyFollowedBoard(ctx context.Context, in classifyInput) (*Event, error) {
	var followers []int64
	thread, board, err := e.nodeWithParent(ctx, in.ReferenceID, func(ctx context.Context, thread *models.Node) (err error) {
		followers, err = e.store.NodeFollowers(ctx, thread.ParentID)
		return err
	})
	if err != nil {
		return nil, err
	}

	// Following a board also follows its sub-boards.
	if board.ParentID != 0 {
		parentFollowers, err := e.store.NodeFollowers(ctx, board.ParentID)
		if err != nil {
			return nil, err
		}
		followers = append(followers, parentFollowers...)
	}

	ev := newEvent(in, board.ID)
	ev.ChildReferenceID = thread.ID
	ev.Description = fmt.Sprintf("%s has posted a new thread '%s' on board '%s'", in.Actor.Username, thread.Title, board.Title)
	ev.MergeDescription = fmt.Sprintf("There are multiple new threads on board '%s'", board.Title)
	ev.Recipients = NewRecipientSet(followers...)
	return ev, nil
}

func (e *Engine) classifyUsernameTag(ctx context.Context, in classifyInput) (*Event, error) {
	var tagged []int64
	post, thread, err := e.nodeWithParent(ctx, in.ReferenceID, func(ctx context.Context, post *models.Node) (err error) {
		names := parseTags(post.Content)
		if len(names) == 0 {
			return nil
		}
		tagged, err = e.store.UserIDsByUsernames(ctx, names)
		return err
	})
	if err != nil {
		return nil, err
	}

	ev := newEvent(in, post.ID)
	ev.Description = fmt.Sprintf("%s has tagged you in thread '%s'", in.Actor.Username, thread.Title)
	ev.Recipients = NewRecipientSet(tagged...)
	return ev, nil
}

func (e *Engine) classifyAnnouncement(ctx context.Context, in classifyInput) (*Event, error) {
	thread, err := e.store.Node(ctx, in.ReferenceID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrCodeNoSuchNode, in.ReferenceID)
	}

	ev := newEvent(in, thread.ID)
	ev.Description = fmt.Sprintf("%s has posted a new announcement: '%s'", in.Actor.Username, thread.Title)
	ev.Global = true
	return ev, nil
}
