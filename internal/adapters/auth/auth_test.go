package auth_test

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/folloapp/calendar-backend/internal/adapters/auth"
)

func TestStaticResolver(t *testing.T) {
	Convey("Given a resolver with known tokens", t, func() {
		ctx := context.Background()
		resolver := auth.NewStaticResolver(map[string]int64{"alpha": 1, "beta": 2})

		Convey("When resolving a known token", func() {
			id, err := resolver.Resolve(ctx, "beta")

			Convey("Then the mapped user id should be returned", func() {
				So(err, ShouldBeNil)
				So(id, ShouldEqual, 2)
			})
		})

		Convey("When resolving a token with surrounding whitespace", func() {
			id, err := resolver.Resolve(ctx, "  alpha ")

			Convey("Then it should still resolve", func() {
				So(err, ShouldBeNil)
				So(id, ShouldEqual, 1)
			})
		})

		Convey("When resolving an unknown token", func() {
			_, err := resolver.Resolve(ctx, "gamma")

			Convey("Then it should fail with the invalid-token kind", func() {
				So(err, ShouldWrap, auth.ErrInvalidToken)
			})
		})

		Convey("When resolving an empty token", func() {
			_, err := resolver.Resolve(ctx, "   ")

			Convey("Then it should fail with the missing-token kind", func() {
				So(err, ShouldWrap, auth.ErrMissingToken)
			})
		})

		Convey("When a token is added at runtime", func() {
			resolver.Add("gamma", 3)
			id, err := resolver.Resolve(ctx, "gamma")

			Convey("Then it should resolve", func() {
				So(err, ShouldBeNil)
				So(id, ShouldEqual, 3)
			})
		})

		Convey("When the source map is mutated after construction", func() {
			source := map[string]int64{"delta": 4}
			isolated := auth.NewStaticResolver(source)
			source["delta"] = 99

			id, err := isolated.Resolve(ctx, "delta")

			Convey("Then the resolver should keep its own copy", func() {
				So(err, ShouldBeNil)
				So(id, ShouldEqual, 4)
			})
		})
	})
}
