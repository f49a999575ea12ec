package domain

var Tables = []interface{}{
	// System
	&Account{},
	&Otp{},
	// Shop
	&Product{},
	&ProductImage{},
	&Category{},
	&Coupon{},
	&Neighborhood{},
	&Phone{},
}
