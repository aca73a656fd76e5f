package mutguard

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	mock_mutguard "github.com/moira-alert/mutguard/mock/mutguard"
	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/mock/gomock"
)

var (
	mutations    = []string{"POST", "PUT", "PATCH", "DELETE", "post", "put", "patch", "delete", "Delete"}
	notMutations = []string{"GET", "HEAD", "OPTIONS", "TRACE", "get", "PROPFIND", "MKCOL", "COPY", "MOVE", "LOCK", "UNLOCK", "CUSTOM", ""}
)

func staticSource(blocked bool) PolicySource {
	return PolicySourceFunc(func(context.Context) (bool, error) {
		return blocked, nil
	})
}

func TestDecide(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	ctx := context.Background()

	Convey("Blocking is active and there is no override", t, func() {
		source := staticSource(true)

		Convey("Mutation methods are denied", func() {
			for _, method := range mutations {
				decision, err := Decide(ctx, OverrideUnset, source, method)
				So(err, ShouldBeNil)
				So(decision.Outcome, ShouldEqual, OutcomeDenied)
				So(decision.Allowed(), ShouldBeFalse)
			}
		})

		Convey("Other methods are allowed", func() {
			for _, method := range notMutations {
				decision, err := Decide(ctx, OverrideUnset, source, method)
				So(err, ShouldBeNil)
				So(decision.Outcome, ShouldEqual, OutcomeAllowedSafeMethod)
				So(decision.Allowed(), ShouldBeTrue)
				So(decision.Err(), ShouldBeNil)
			}
		})

		Convey("Explicit OverrideNone behaves like no override", func() {
			decision, err := Decide(ctx, OverrideNone, source, "DELETE")
			So(err, ShouldBeNil)
			So(decision.Outcome, ShouldEqual, OutcomeDenied)
		})

		Convey("Lower case method gives the same result as upper case one", func() {
			lower, err := Decide(ctx, OverrideUnset, source, "post")
			So(err, ShouldBeNil)
			upper, err := Decide(ctx, OverrideUnset, source, "POST")
			So(err, ShouldBeNil)
			So(cmp.Diff(lower, upper), ShouldBeEmpty)
		})

		Convey("Denial carries exact reason", func() {
			decision, err := Decide(ctx, OverrideUnset, source, "post")
			So(err, ShouldBeNil)

			var blockedErr *BlockedError
			So(errors.As(decision.Err(), &blockedErr), ShouldBeTrue)
			So(blockedErr.Method, ShouldEqual, "POST")
			So(decision.Err().Error(), ShouldEqual, "HTTP POST mutations are currently blocked. Use the AllowMutations override to override.")
		})
	})

	Convey("Route is overridden", t, func() {
		Convey("Policy source is never called", func() {
			source := mock_mutguard.NewMockPolicySource(mockCtrl)
			source.EXPECT().ShouldBlockMutations(gomock.Any()).Times(0)

			for _, method := range append(mutations, notMutations...) {
				decision, err := Decide(ctx, OverrideAllow, source, method)
				So(err, ShouldBeNil)
				So(decision.Outcome, ShouldEqual, OutcomeAllowedByOverride)
			}
		})

		Convey("Failing policy source does not matter", func() {
			source := mock_mutguard.NewMockPolicySource(mockCtrl)
			source.EXPECT().ShouldBlockMutations(gomock.Any()).Times(0)

			decision, err := Decide(ctx, OverrideAllow, source, "DELETE")
			So(err, ShouldBeNil)
			So(decision.Allowed(), ShouldBeTrue)
		})

		Convey("Nil policy source does not matter", func() {
			decision, err := Decide(ctx, OverrideAllow, nil, "PUT")
			So(err, ShouldBeNil)
			So(decision.Allowed(), ShouldBeTrue)
		})
	})

	Convey("Blocking is not active", t, func() {
		source := staticSource(false)

		for _, method := range append(mutations, notMutations...) {
			decision, err := Decide(ctx, OverrideUnset, source, method)
			So(err, ShouldBeNil)
			So(decision.Outcome, ShouldEqual, OutcomeAllowedByPolicy)
		}
	})

	Convey("Policy source is evaluated on every call", t, func() {
		source := mock_mutguard.NewMockPolicySource(mockCtrl)
		gomock.InOrder(
			source.EXPECT().ShouldBlockMutations(ctx).Return(false, nil),
			source.EXPECT().ShouldBlockMutations(ctx).Return(true, nil),
		)

		first, err := Decide(ctx, OverrideUnset, source, "POST")
		So(err, ShouldBeNil)
		So(first.Allowed(), ShouldBeTrue)

		second, err := Decide(ctx, OverrideUnset, source, "POST")
		So(err, ShouldBeNil)
		So(second.Allowed(), ShouldBeFalse)
	})

	Convey("Policy source fails", t, func() {
		sourceErr := errors.New("redis is down")
		source := mock_mutguard.NewMockPolicySource(mockCtrl)
		source.EXPECT().ShouldBlockMutations(ctx).Return(true, sourceErr)

		decision, err := Decide(ctx, OverrideUnset, source, "GET")
		So(decision, ShouldResemble, Decision{})

		var policyErr *PolicySourceError
		So(errors.As(err, &policyErr), ShouldBeTrue)
		So(errors.Is(err, sourceErr), ShouldBeTrue)
		So(err.Error(), ShouldEqual, "failed to evaluate mutations policy: redis is down")
	})

	Convey("Policy source is nil", t, func() {
		_, err := Decide(ctx, OverrideUnset, nil, "POST")
		So(err, ShouldEqual, ErrNilPolicySource)
	})

	Convey("Concrete scenarios", t, func() {
		decision, _ := Decide(ctx, OverrideUnset, staticSource(true), "GET")
		So(decision.Allowed(), ShouldBeTrue)

		decision, _ = Decide(ctx, OverrideUnset, staticSource(true), "DELETE")
		So(decision.Allowed(), ShouldBeFalse)

		source := mock_mutguard.NewMockPolicySource(mockCtrl)
		source.EXPECT().ShouldBlockMutations(gomock.Any()).Times(0)
		decision, _ = Decide(ctx, OverrideAllow, source, "DELETE")
		So(decision.Allowed(), ShouldBeTrue)

		decision, _ = Decide(ctx, OverrideUnset, staticSource(false), "POST")
		So(decision.Allowed(), ShouldBeTrue)
	})
}

func TestOverride(t *testing.T) {
	Convey("Override from bool", t, func() {
		So(OverrideFromBool(true), ShouldEqual, OverrideAllow)
		So(OverrideFromBool(false), ShouldEqual, OverrideNone)
		So(OverrideUnset.IsSet(), ShouldBeFalse)
		So(OverrideNone.IsSet(), ShouldBeTrue)
		So(OverrideAllow.String(), ShouldEqual, "allow")
		So(OverrideUnset.String(), ShouldEqual, "unset")
	})
}
