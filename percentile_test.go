package avlbag

import (
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func filled(items ...int) *Bag[int] {
	b := NewOrdered[int]()
	for _, item := range items {
		So(b.Add(item), ShouldBeNil)
	}
	return b
}

func percentile(b *Bag[int], p int) int {
	item, err := b.ElementAtPercentile(p)
	So(err, ShouldBeNil)
	return item
}

func TestElementAtPercentile(t *testing.T) {
	Convey("When the bag is empty", t, func() {
		b := NewOrdered[int]()
		Convey("Any valid percentile fails with ErrEmpty", func() {
			for _, p := range []int{0, 50, 100} {
				_, err := b.ElementAtPercentile(p)
				So(errors.Is(err, ErrEmpty), ShouldBeTrue)
			}
		})
		Convey("An out of range percentile is rejected before emptiness", func() {
			_, err := b.ElementAtPercentile(101)
			So(errors.Is(err, ErrInvalidArgument), ShouldBeTrue)
		})
	})

	Convey("When the bag holds a single item", t, func() {
		b := filled(0)
		So(percentile(b, 0), ShouldEqual, 0)
		So(percentile(b, 100), ShouldEqual, 0)
	})

	Convey("When the bag holds 0..999", t, func() {
		b := filled(ascending(1000)...)
		So(percentile(b, 90), ShouldEqual, 900)
	})

	Convey("When the bag holds 0..15", t, func() {
		b := filled(ascending(16)...)
		Convey("Percentile 90 lands on the largest item", func() {
			So(percentile(b, 90), ShouldEqual, 15)
		})
		Convey("The extremes are the smallest and largest items", func() {
			So(percentile(b, 0), ShouldEqual, 0)
			So(percentile(b, 100), ShouldEqual, 15)
		})
	})

	Convey("When the bag holds a few ascending items", t, func() {
		So(percentile(filled(ascending(10)...), 50), ShouldEqual, 5)
		So(percentile(filled(ascending(2)...), 50), ShouldEqual, 0)
		So(percentile(filled(ascending(3)...), 100), ShouldEqual, 2)
	})

	Convey("When the items arrive out of order", t, func() {
		b := filled(5, 3, 8, 1, 4, 7, 9, 2, 6)
		for p, want := range map[int]int{0: 1, 10: 1, 25: 3, 50: 6, 75: 9, 90: 9, 100: 9} {
			So(percentile(b, p), ShouldEqual, want)
		}
	})

	Convey("When the bag holds duplicates", t, func() {
		b := filled(10, 10, 10, 10, 20, 20)
		for _, p := range []int{0, 10, 25} {
			So(percentile(b, p), ShouldEqual, 10)
		}
		for _, p := range []int{50, 75, 90, 100} {
			So(percentile(b, p), ShouldEqual, 20)
		}
	})

	Convey("When the percentile is out of range", t, func() {
		b := filled(1, 2, 3)
		for _, p := range []int{-1, 101, 1000} {
			_, err := b.ElementAtPercentile(p)
			So(err, ShouldNotBeNil)
			So(errors.Is(err, ErrInvalidArgument), ShouldBeTrue)
		}
		Convey("The bag is left untouched", func() {
			So(b.Size(), ShouldEqual, 3)
			So(b.Validate(), ShouldBeNil)
		})
	})

	Convey("When items are removed", t, func() {
		b := filled(ascending(16)...)
		So(b.Remove(15), ShouldBeTrue)
		Convey("The probe only sees what is left", func() {
			So(percentile(b, 100), ShouldEqual, 14)
			So(percentile(b, 0), ShouldEqual, 0)
		})
	})
}
