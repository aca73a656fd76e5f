package controller

import (
	"context"
	"errors"
	"net/http"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/mock/gomock"

	"github.com/moira-alert/mutguard"
	"github.com/moira-alert/mutguard/api/dto"
	mock_mutguard "github.com/moira-alert/mutguard/mock/mutguard"
)

type writableSource struct {
	*mock_mutguard.MockPolicySource
	*mock_mutguard.MockPolicyStateWriter
}

func TestGetMutationsState(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	source := mock_mutguard.NewMockPolicySource(mockCtrl)
	defer mockCtrl.Finish()

	Convey("Mutations are allowed", t, func() {
		source.EXPECT().ShouldBlockMutations(gomock.Any()).Return(false, nil)

		state, err := GetMutationsState(context.Background(), source)
		So(err, ShouldBeNil)
		So(*state, ShouldResemble, dto.MutationsState{Blocked: false})
	})

	Convey("Mutations are blocked", t, func() {
		source.EXPECT().ShouldBlockMutations(gomock.Any()).Return(true, nil)

		state, err := GetMutationsState(context.Background(), source)
		So(err, ShouldBeNil)
		So(*state, ShouldResemble, dto.MutationsState{Blocked: true, Message: dto.BlockedMessage})
	})

	Convey("Policy source fails", t, func() {
		origin := errors.New("timeout")
		source.EXPECT().ShouldBlockMutations(gomock.Any()).Return(false, origin)

		state, err := GetMutationsState(context.Background(), source)
		So(state, ShouldBeNil)
		So(err.HTTPStatusCode, ShouldEqual, http.StatusInternalServerError)
		So(errors.Is(err.Err, origin), ShouldBeTrue)

		var sourceErr *mutguard.PolicySourceError
		So(errors.As(err.Err, &sourceErr), ShouldBeTrue)
	})
}

func TestUpdateMutationsState(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()
	blocked := true

	Convey("Source without writes", t, func() {
		source := mock_mutguard.NewMockPolicySource(mockCtrl)

		err := UpdateMutationsState(context.Background(), source, &dto.MutationsStateUpdate{Blocked: &blocked})
		So(err.HTTPStatusCode, ShouldEqual, http.StatusBadRequest)
	})

	Convey("Writable source", t, func() {
		writer := mock_mutguard.NewMockPolicyStateWriter(mockCtrl)
		source := writableSource{mock_mutguard.NewMockPolicySource(mockCtrl), writer}

		Convey("Successful write", func() {
			writer.EXPECT().SetBlocked(gomock.Any(), true, "admin").Return(nil)

			err := UpdateMutationsState(context.Background(), source, &dto.MutationsStateUpdate{Blocked: &blocked, Actor: "admin"})
			So(err, ShouldBeNil)
		})

		Convey("Failed write", func() {
			writer.EXPECT().SetBlocked(gomock.Any(), true, "admin").Return(errors.New("read only replica"))

			err := UpdateMutationsState(context.Background(), source, &dto.MutationsStateUpdate{Blocked: &blocked, Actor: "admin"})
			So(err.HTTPStatusCode, ShouldEqual, http.StatusInternalServerError)
			So(err.ErrorText, ShouldEqual, "read only replica")
		})
	})
}
