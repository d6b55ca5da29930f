package dto

// ErrorResponse respuesta de error uniforme de la API.
// Expected se llena solo para rechazos de escaneo (ubicación/artículo) con
// el valor esperado, sin exponer el resto de la línea.
type ErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Expected string `json:"expected,omitempty"`
}
