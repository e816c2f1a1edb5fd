package main

import "github.com/consentdesk/consent-permit-service/cmd"

func main() {
	cmd.Execute()
}
