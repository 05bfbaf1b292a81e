// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package tools

// Instructions is sent to the client when a session is initialized.
const Instructions = `# BlazeMeter MCP Server
Gives AI assistants programmatic access to BlazeMeter's cloud performance testing platform:
test creation, configuration, asset upload, execution and reporting.

General rules:
  - If you have the information needed to call a tool action with its arguments, do so.
  - The read action always returns more information about an item than list; list shows minimal information.
  - Read the current user at startup to learn the default account, workspace and project.
  - Dependencies:
      accounts: depend on nothing. The user record shows the default account; list shows the rest.
      workspaces: belong to an account.
      projects: belong to a workspace.
      tests: belong to a project.
      executions: belong to a test.
  - Every result has the shape {result, total, has_more, error}. When error is set, ignore result.`

const userDescription = `Operations on the current user.
Actions:
- read: Read the current user information from BlazeMeter (default account, workspace and project included).
    args(dict): no arguments.`

const accountDescription = `Operations on accounts.
Use this when a user needs to select an account.
Actions:
- read: Read an account. Get the information of an account, including AI consent.
    args(dict):
        account_id (int): The id of the account.
- list: List all accounts.
    args(dict):
        limit (int, default=50): The number of accounts to list.
        offset (int, default=0): Number of accounts to skip.
Hints:
- To find the default account, read the user, or go from a project to its workspace and then its account.
- Use read when AI consent information is needed; it lives at account level.`

const workspacesDescription = `Operations on workspaces.
Actions:
- read: Read a workspace. Get the detailed information of a workspace (owner, allowance, locations).
    args(dict):
        workspace_id (int): The id of the workspace.
- list: List the workspaces of an account.
    args(dict):
        account_id (int): The id of the account to list workspaces from.
        limit (int, default=50): The number of workspaces to list.
        offset (int, default=0): Number of workspaces to skip.`

const projectDescription = `Operations on projects.
Use this when a user needs to select a project for test allocation.
Actions:
- read: Read a project, including the number of tests it holds.
    args(dict):
        project_id (int): The id of the project.
- list: List the projects of a workspace.
    args(dict):
        workspace_id (int): The id of the workspace to list projects from.
        limit (int, default=50): The number of projects to list.
        offset (int, default=0): Number of projects to skip.
Hints:
- For a particular project, go directly to read; account and workspace are not needed.
- read gives the number of tests without listing them.`

const testsDescription = `Operations on tests.
Actions:
- create: Create a new test. Do not create a test until the user has confirmed the account, workspace and project.
    args(dict):
        test_name (str): The name of the test.
        project_id (int): The id of the project that will hold the test.
- read: Read a test, including its configuration.
    args(dict):
        test_id (int): The id of the test.
- list: List the tests of a project.
    args(dict):
        project_id (int): The id of the project to list tests from.
        limit (int, default=50): The number of tests to list.
        offset (int, default=0): Number of tests to skip.
- configure: Configure the load of a test. Only test_id is required; apply the other values only after the user confirms them.
    args(dict):
        test_id (int): The id of the test to configure.
        iterations (int): Number of iterations, null if disabled. Not available together with hold-for.
        hold-for (str): Time at peak concurrency, in minutes, e.g. "5m", null if disabled. Not available together with iterations.
        concurrency (int): Number of concurrent virtual users. Minimum 1.
        ramp-up (str): Time to reach full concurrency, in minutes, e.g. "1m".
        steps (int): Number of ramp-up steps.
        executor (str): Script type: gatling, grinder, jmeter, locust, pbench, selenium or siege.
        locations (list[str]): Load distribution as "location=percent" entries that add up to 100, e.g. ["us-east4-a=60", "eu-west-1=40"].
- upload_assets: Upload the main script and related assets (.jmx, .yaml, .csv, .zip, .jar, ...) to a test.
    args(dict):
        test_id (int): The id of the test.
        file_paths (list[str]): Full paths of the files to upload.
        main_script (str, optional): Path of the main script. When given and uploaded, the test is switched to it.`

const executionDescription = `Operations on test executions and their reports.
Actions:
- start: Start a configured load test.
    args(dict):
        test_id (int): The id of the test to start.
        delayed_start (bool, default=true): Start load generators only once all of them are ready.
        debug (bool, default=false): Run as a debug run.
- read: Read an execution, including its status and progress.
    args(dict):
        execution_id (int): The id of the execution.
- list: List the executions of a test.
    args(dict):
        test_id (int): The id of the test.
        limit (int, default=50): The number of executions to list.
        offset (int, default=0): Number of executions to skip.
- read_summary: Get the summary report of an execution.
    args(dict):
        execution_id (int): The id of the execution.
- read_errors: Get a page of the errors report of an execution.
    args(dict):
        execution_id (int): The id of the execution.
        limit (int, default=10): Rows per page.
        offset (int, default=0): Rows to skip.
        filter (str, optional): JMESPath expression applied to the rows before paging, e.g. "[?count > ` + "`5`" + `]".
- read_request_stats: Get a page of the request statistics report of an execution.
    args(dict): same as read_errors.
- read_all_reports: Get the summary, errors and request statistics reports (first page each) of an execution.
    args(dict):
        execution_id (int): The id of the execution.`
