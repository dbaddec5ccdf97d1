package rest

const (
	// api
	RouteApiV1 = "/api/v1"

	// auth
	RouteAuth   = RouteApiV1 + "/auth"
	RouteLogin  = RouteAuth + "/login"
	RouteLogout = RouteAuth + "/logout"
	RouteMe     = RouteAuth + "/me"

	// files
	RouteUpload        = RouteApiV1 + "/upload"
	RouteUploadContent = RouteUpload + "/content"

	// ops
	RouteHealth  = RouteApiV1 + "/healthz"
	RouteMetrics = RouteApiV1 + "/metrics"
)
