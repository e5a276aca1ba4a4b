package domain

import (
	"context"
	"errors"
)

type AddFriendRequest struct {
	AccountID      string
	FriendUsername string
}

type ListFriendsRequest struct {
	AccountID string
}

type CommonGamesRequest struct {
	AccountID string
	FriendID  string
}

type Service interface {
	AddFriend(context.Context, AddFriendRequest) (Friend, error)
	ListFriends(context.Context, ListFriendsRequest) ([]Friend, error)

	// CommonGames intersects two independent ownership reads. The result is
	// a read-time snapshot, not a transactional join.
	CommonGames(context.Context, CommonGamesRequest) ([]CommonGame, error)
}

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidUsername = errors.New("invalid_username")
	ErrSelfFriend      = errors.New("self_friend")
	ErrAlreadyFriends  = errors.New("already_friends")
	ErrAccountNotFound = errors.New("account_not_found")
	ErrNotFriends      = errors.New("not_friends")
)
