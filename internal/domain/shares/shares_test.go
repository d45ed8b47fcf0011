package shares_test

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/okian/carbonview/internal/domain/model"
	"github.com/okian/carbonview/internal/domain/shares"
	"github.com/smartystreets/goconvey/convey"
)

func mixRow(entity string, year int, vals ...float64) model.Row {
	values := make(map[string]float64, len(model.EnergySources))
	for i, s := range model.EnergySources {
		values[s] = vals[i]
	}
	return model.NewRow(entity, "", year, values)
}

func TestCompute(t *testing.T) {
	convey.Convey("Given a table with three sibling columns", t, func() {
		rows := []model.Row{
			model.NewRow("A", "AAA", 2000, map[string]float64{"coal": 40, "oil": 30, "gas": 30}),
			model.NewRow("A", "AAA", 2001, map[string]float64{"coal": 0, "oil": 0, "gas": 0}),
		}
		table := model.NewTable("mix", []string{"coal", "oil", "gas"}, rows)

		out, err := shares.Compute(table, []string{"coal", "oil", "gas"}, []string{"Coal", "Oil", "Gas"})

		convey.So(err, convey.ShouldBeNil)
		convey.So(out.Len(), convey.ShouldEqual, 2)
		convey.So(out.Columns(), convey.ShouldResemble, []string{"coal", "oil", "gas", "Coal", "Oil", "Gas"})
		convey.So(out.Outputs(), convey.ShouldResemble, []string{"Coal", "Oil", "Gas"})

		convey.Convey("Then a positive total yields proportional fractions", func() {
			r := out.Row(0)
			convey.So(r.Value("Coal"), convey.ShouldAlmostEqual, 0.4, 1e-12)
			convey.So(r.Value("Oil"), convey.ShouldAlmostEqual, 0.3, 1e-12)
			convey.So(r.Value("Gas"), convey.ShouldAlmostEqual, 0.3, 1e-12)
			convey.So(r.Value("coal"), convey.ShouldEqual, 40.0)
			convey.So(out.NoData(0), convey.ShouldBeFalse)
		})

		convey.Convey("Then a zero total yields zeros flagged as no data", func() {
			r := out.Row(1)
			for _, c := range []string{"Coal", "Oil", "Gas"} {
				convey.So(r.Has(c), convey.ShouldBeTrue)
				convey.So(r.Value(c), convey.ShouldEqual, 0.0)
			}
			convey.So(out.NoData(1), convey.ShouldBeTrue)
			convey.So(out.NoDataFlags(), convey.ShouldResemble, []bool{false, true})
		})

		convey.Convey("Then the source table is untouched", func() {
			convey.So(table.HasColumn("Coal"), convey.ShouldBeFalse)
			convey.So(table.Row(0).Has("Coal"), convey.ShouldBeFalse)
		})

		convey.Convey("Then subsets keep flags aligned with rows", func() {
			sub := out.Subset([]int{1})
			convey.So(sub.Len(), convey.ShouldEqual, 1)
			convey.So(sub.Row(0).Year, convey.ShouldEqual, 2001)
			convey.So(sub.NoData(0), convey.ShouldBeTrue)
			convey.So(sub.Outputs(), convey.ShouldResemble, out.Outputs())
		})
	})

	convey.Convey("Given mismatched column lists", t, func() {
		table := model.NewTable("mix", []string{"coal"}, nil)

		convey.Convey("When lengths differ", func() {
			_, err := shares.Compute(table, []string{"coal"}, []string{"Coal", "Oil"})
			convey.So(errors.Is(err, shares.ErrColumnMismatch), convey.ShouldBeTrue)
		})

		convey.Convey("When both are empty", func() {
			_, err := shares.Compute(table, nil, nil)
			convey.So(errors.Is(err, shares.ErrColumnMismatch), convey.ShouldBeTrue)
		})

		convey.Convey("When a sibling is not a column", func() {
			_, err := shares.Compute(table, []string{"wind"}, []string{"Wind"})
			convey.So(errors.Is(err, shares.ErrUnknownColumn), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "wind")
		})
	})
}

func TestEnergyMix(t *testing.T) {
	convey.Convey("Given a row with only fossil sources", t, func() {
		table := model.NewTable("energy_mix", model.EnergySources, []model.Row{
			mixRow("A", 2000, 40, 30, 30, 0, 0, 0, 0, 0),
		})

		out, err := shares.EnergyMix(table)

		convey.Convey("Then fossil shares are proportional and every other source is zero", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(out.Outputs(), convey.ShouldResemble, model.EnergyShares)
			r := out.Row(0)
			convey.So(r.Value("Coal"), convey.ShouldAlmostEqual, 0.4, 1e-12)
			convey.So(r.Value("Oil"), convey.ShouldAlmostEqual, 0.3, 1e-12)
			convey.So(r.Value("Gas"), convey.ShouldAlmostEqual, 0.3, 1e-12)
			for _, c := range model.EnergyShares[3:] {
				convey.So(r.Has(c), convey.ShouldBeTrue)
				convey.So(r.Value(c), convey.ShouldEqual, 0.0)
			}
			convey.So(out.NoData(0), convey.ShouldBeFalse)
		})
	})
}

func TestEnergyMixSumsToOne(t *testing.T) {
	convey.Convey("Given random energy-mix rows", t, func() {
		rng := rand.New(rand.NewSource(42))
		rows := make([]model.Row, 0, 200)
		for i := 0; i < 200; i++ {
			vals := make([]float64, len(model.EnergySources))
			for j := range vals {
				if rng.Intn(4) > 0 {
					vals[j] = rng.Float64() * 10000
				}
			}
			rows = append(rows, mixRow("E", 1965+i%50, vals...))
		}
		rows = append(rows, mixRow("Z", 1965, 0, 0, 0, 0, 0, 0, 0, 0))
		table := model.NewTable("energy_mix", model.EnergySources, rows)

		out, err := shares.EnergyMix(table)

		convey.Convey("Then every row with data sums to one and empty rows are flagged", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(out.Len(), convey.ShouldEqual, table.Len())
			for i := 0; i < out.Len(); i++ {
				var sum float64
				for _, c := range model.EnergyShares {
					sum += out.Row(i).Value(c)
				}
				if out.NoData(i) {
					convey.So(sum, convey.ShouldEqual, 0.0)
					continue
				}
				convey.So(math.Abs(sum-1), convey.ShouldBeLessThan, 1e-9)
			}
			convey.So(out.NoData(out.Len()-1), convey.ShouldBeTrue)
		})
	})
}
