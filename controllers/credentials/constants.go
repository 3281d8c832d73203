package credentials

// Session keys used by the sign in form between the POST and the following GET
const SIGNIN_ERRORS = "signin.errors"
const SIGNIN_SUBMIT_ERROR = "signin.submit.error"
const SIGNIN_EMAIL = "signin.email"
