package validation

// Messages are part of the public API; clients match on them verbatim.
const (
	MsgInvalidID             = "ID no válido"
	MsgNameRequired          = "Nombre de producto es Obligatorio"
	MsgInvalidValue          = "Valor no válido"
	MsgInvalidPrice          = "Precio No válido"
	MsgPriceRequired         = "El precio del producto es Obligatorio"
	MsgInvalidAvailability   = "valor para disponibilidad No válido"
	MsgInvalidRequestPayload = "Cuerpo de la solicitud no válido"
)

var (
	ProductID = Param("id",
		Rule{Check: IsInt, Message: MsgInvalidID},
	)

	ProductName = Body("name",
		Rule{Check: NotEmpty, Message: MsgNameRequired},
	)

	// The required check runs last, so an absent price reports three errors.
	ProductPrice = Body("price",
		Rule{Check: IsNumeric, Message: MsgInvalidValue},
		Rule{Check: GreaterThanZero, Message: MsgInvalidPrice},
		Rule{Check: NotEmpty, Message: MsgPriceRequired},
	)

	ProductAvailability = Body("availability",
		Rule{Check: IsBoolean, Message: MsgInvalidAvailability},
	)
)

// Per-route chains.
var (
	CreateProduct     = []Field{ProductName, ProductPrice}
	UpdateProduct     = []Field{ProductName, ProductPrice, ProductAvailability}
	ProductIdentifier = []Field{ProductID}
)
