package i18n

var messages = map[string]map[string]string{
	LocaleES: {
		"error.bad_request":                 "Solicitud inválida",
		"error.internal":                    "Error interno, intenta nuevamente",
		"error.not_found":                   "Recurso no encontrado",
		"error.too_many_requests":           "Demasiadas solicitudes, espera %d segundos",
		"error.session_required":            "Sesión no iniciada",
		"error.product_not_found":           "Producto no encontrado",
		"error.category_not_found":          "Categoría no encontrada",
		"error.product_fetch_failed":        "No pudimos cargar los productos",
		"error.category_fetch_failed":       "No pudimos cargar las categorías",
		"error.backend_unavailable":         "La tienda no está disponible en este momento",
		"error.variant_incomplete":          "Selecciona todas las opciones del producto",
		"error.variant_invalid":             "Opción de producto no válida",
		"error.variant_unavailable":         "La combinación seleccionada no está disponible",
		"error.variation_id_invalid":        "Variación no válida",
		"error.depiction_fetch_failed":      "No pudimos cargar la imagen de la variación",
		"error.product_not_purchasable":     "Este producto no está disponible para compra",
		"error.quantity_invalid":            "Cantidad no válida",
		"error.cart_fetch_failed":           "No pudimos cargar tu carrito",
		"error.cart_update_failed":          "No pudimos actualizar tu carrito",
		"error.checkout_form_invalid":       "Revisa los datos del formulario",
		"error.checkout_in_progress":        "Ya hay un pedido en proceso",
		"error.checkout_failed":             "No pudimos completar tu pedido",
		"error.payment_method_invalid":      "Método de pago no disponible",
		"error.checkout_attempt_not_found":  "Pedido no encontrado",
		"error.checkout_attempt_fetch_fail": "No pudimos cargar tus pedidos",

		"checkout.field.email.required":        "Ingresa tu correo electrónico",
		"checkout.field.email.invalid":         "Correo electrónico no válido",
		"checkout.field.telefono.required":     "Ingresa tu teléfono",
		"checkout.field.telefono.invalid":      "Teléfono no válido",
		"checkout.field.nombre.required":       "Ingresa tu nombre",
		"checkout.field.apellido.required":     "Ingresa tu apellido",
		"checkout.field.direccion.required":    "Ingresa tu dirección",
		"checkout.field.region.required":       "Selecciona una región",
		"checkout.field.comuna.required":       "Ingresa tu comuna",
		"checkout.field.codigoPostal.required": "Ingresa tu código postal",
	},
	LocaleEN: {
		"error.bad_request":                 "Bad request",
		"error.internal":                    "Internal error, please retry",
		"error.not_found":                   "Resource not found",
		"error.too_many_requests":           "Too many requests, wait %d seconds",
		"error.session_required":            "Session not started",
		"error.product_not_found":           "Product not found",
		"error.category_not_found":          "Category not found",
		"error.product_fetch_failed":        "Could not load products",
		"error.category_fetch_failed":       "Could not load categories",
		"error.backend_unavailable":         "The store is unavailable right now",
		"error.variant_incomplete":          "Select every product option",
		"error.variant_invalid":             "Invalid product option",
		"error.variant_unavailable":         "The selected combination is not available",
		"error.variation_id_invalid":        "Invalid variation",
		"error.depiction_fetch_failed":      "Could not load the variation image",
		"error.product_not_purchasable":     "This product cannot be purchased",
		"error.quantity_invalid":            "Invalid quantity",
		"error.cart_fetch_failed":           "Could not load your cart",
		"error.cart_update_failed":          "Could not update your cart",
		"error.checkout_form_invalid":       "Please review the form",
		"error.checkout_in_progress":        "An order is already being placed",
		"error.checkout_failed":             "We could not place your order",
		"error.payment_method_invalid":      "Payment method not available",
		"error.checkout_attempt_not_found":  "Order not found",
		"error.checkout_attempt_fetch_fail": "Could not load your orders",

		"checkout.field.email.required":        "Enter your email",
		"checkout.field.email.invalid":         "Invalid email",
		"checkout.field.telefono.required":     "Enter your phone number",
		"checkout.field.telefono.invalid":      "Invalid phone number",
		"checkout.field.nombre.required":       "Enter your first name",
		"checkout.field.apellido.required":     "Enter your last name",
		"checkout.field.direccion.required":    "Enter your address",
		"checkout.field.region.required":       "Select a region",
		"checkout.field.comuna.required":       "Enter your district",
		"checkout.field.codigoPostal.required": "Enter your postal code",
	},
}
