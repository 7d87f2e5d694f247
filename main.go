package main

import "staff-planner.com/staff-planner/cmd"

func main() {
	cmd.Execute()
}
