package bspay

// PixKeyType maps a stored pix key type to the gateway's key type.
// Unknown types are sent as CPF.
func PixKeyType(t string) string {
	switch t {
	case "email":
		return "EMAIL"
	case "document":
		return "CPF"
	case "cnpj":
		return "CNPJ"
	case "randomKey":
		return "ALEATORIA"
	case "phone", "phoneNumber":
		return "TELEFONE"
	default:
		return "CPF"
	}
}
