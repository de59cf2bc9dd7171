package response

import (
	"time"

	"rental-booking/internal/domain/booking"

	"github.com/jinzhu/copier"
)

// Read models keep money in cents and stay dates as midnight UTC; the API
// speaks major units and YYYY-MM-DD.
var viewConverters = copier.Option{
	Converters: []copier.TypeConverter{
		{
			SrcType: time.Time{},
			DstType: copier.String,
			Fn: func(src any) (any, error) {
				return src.(time.Time).Format(booking.DateLayout), nil
			},
		},
		{
			SrcType: int64(0),
			DstType: float64(0),
			Fn: func(src any) (any, error) {
				return centsToMajor(src.(int64)), nil
			},
		},
		{
			SrcType: (*int64)(nil),
			DstType: (*float64)(nil),
			Fn: func(src any) (any, error) {
				cents := src.(*int64)
				if cents == nil {
					return (*float64)(nil), nil
				}
				v := centsToMajor(*cents)
				return &v, nil
			},
		},
	},
}

func copyView(dst, src any) error {
	return copier.CopyWithOption(dst, src, viewConverters)
}

func centsToMajor(cents int64) float64 {
	return booking.NewMoney(cents).Dollars()
}
