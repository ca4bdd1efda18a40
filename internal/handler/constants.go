package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the homepage.
	RouteRoot = "/"
	// RouteRegister is the registration route.
	RouteRegister = "/register"
	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"
	// RoutePostID is the post detail route pattern.
	RoutePostID = "/post/{id}"
	// RouteNewPost is the post creation route.
	RouteNewPost = "/new-post"
	// RouteEditPostID is the post edit route pattern.
	RouteEditPostID = "/edit-post/{id}"
	// RouteDeletePostID is the post deletion route pattern.
	RouteDeletePostID = "/delete/{id}"
	// RouteAbout is the about page.
	RouteAbout = "/about"
	// RouteContact is the contact page.
	RouteContact = "/contact"
	// RouteHealth is the health check route.
	RouteHealth = "/health"
)

const (
	redirectHome     = RouteRoot
	redirectLogin    = RouteLogin
	redirectRegister = RouteRegister
	redirectNewPost  = RouteNewPost

	redirectPostID = "/post/%d"
)
