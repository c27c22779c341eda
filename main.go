package main

import "gig-marketplace-api/app"

func main() {
	app.Run()
}
